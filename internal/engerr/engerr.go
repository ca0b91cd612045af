// Package engerr defines the engine's error taxonomy. Every kind aborts
// the invocation outright — the engine never retries and never returns a
// partial row sequence (see spec §7, Propagation policy).
package engerr

import (
	"fmt"

	"github.com/ledgerflow/statement-engine/internal/model"
)

// Kind is one taxonomy member, not a concrete error type — callers compare
// an *Error's Kind field against these directly, or use errors.Is with the
// matching Err* sentinel below.
type Kind string

const (
	UnsupportedFormat         Kind = "UnsupportedFormat"
	UnknownParserKey          Kind = "UnknownParserKey"
	FormatNotConfigured       Kind = "FormatNotConfigured"
	HeaderNotFound            Kind = "HeaderNotFound"
	HeaderMappingInsufficient Kind = "HeaderMappingInsufficient"
	MalformedProfile          Kind = "MalformedProfile"
	IoFailure                 Kind = "IoFailure"
)

// Error carries the parser key, format kind, and the nearest source
// location available, per spec §7 ("Failure semantics").
type Error struct {
	Kind      Kind
	ParserKey string
	Format    model.FormatKind
	Location  string // row index ("row 14") or PDF character offset ("offset 8203")
	Message   string
	Cause     error
}

func (e *Error) Error() string {
	loc := ""
	if e.Location != "" {
		loc = " at " + e.Location
	}
	msg := e.Message
	if e.Cause != nil {
		if msg != "" {
			msg = msg + ": " + e.Cause.Error()
		} else {
			msg = e.Cause.Error()
		}
	}
	return fmt.Sprintf("%s: parser=%q format=%q%s: %s", e.Kind, e.ParserKey, e.Format, loc, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, engerr.ErrHeaderNotFound) work by comparing Kind,
// since Kind values aren't error values themselves.
func (e *Error) Is(target error) bool {
	k, ok := target.(*Error)
	if !ok {
		return false
	}
	return k.Kind == e.Kind
}

// New builds an *Error. loc may be empty when no location is known yet.
func New(kind Kind, parserKey string, format model.FormatKind, loc, message string) *Error {
	return &Error{Kind: kind, ParserKey: parserKey, Format: format, Location: loc, Message: message}
}

// Wrap attaches a taxonomy kind to an underlying stage failure, following
// the teacher's fmt.Errorf("...: %w", err) wrapping idiom.
func Wrap(kind Kind, parserKey string, format model.FormatKind, loc string, cause error) *Error {
	return &Error{Kind: kind, ParserKey: parserKey, Format: format, Location: loc, Cause: cause}
}

// Sentinel returns a zero-value *Error of the given kind, suitable only as
// an errors.Is target (its own Is method compares Kind, ignoring the rest).
func Sentinel(kind Kind) *Error { return &Error{Kind: kind} }

// Sentinel error values for errors.Is(err, engerr.ErrHeaderNotFound) style
// checks at call sites, without needing to know the Kind string.
var (
	ErrUnsupportedFormat         = Sentinel(UnsupportedFormat)
	ErrUnknownParserKey          = Sentinel(UnknownParserKey)
	ErrFormatNotConfigured       = Sentinel(FormatNotConfigured)
	ErrHeaderNotFound            = Sentinel(HeaderNotFound)
	ErrHeaderMappingInsufficient = Sentinel(HeaderMappingInsufficient)
	ErrMalformedProfile          = Sentinel(MalformedProfile)
	ErrIoFailure                 = Sentinel(IoFailure)
)
