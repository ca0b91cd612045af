// Package engine implements the Engine Facade (spec §4, overview diagram):
// Parse takes a raw document stream and returns normalized transaction
// rows, orchestrating format detection, profile resolution, header
// resolution, and row materialization in that order.
package engine

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/ledgerflow/statement-engine/internal/detect"
	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
	"github.com/ledgerflow/statement-engine/internal/row"
)

// Engine holds the immutable profile tree resolved once at startup.
type Engine struct {
	profiles *profile.Tree
}

// New wraps an already-loaded profile tree.
func New(profiles *profile.Tree) *Engine {
	return &Engine{profiles: profiles}
}

// Result is one parsed document.
type Result struct {
	Format   model.FormatKind
	Rows     []model.ParsedRow
	Metadata row.Metadata
}

// Parse converts a raw document stream into normalized transaction rows
// (spec §4, top-level operation). accountNoOverride, when non-empty,
// replaces whatever account number metadata extraction would otherwise
// produce — callers that already know the account (e.g. an upload form
// bound to one account) use it to skip the unreliable free-text scrape.
func (e *Engine) Parse(stream io.Reader, filename, contentType, parserKey string, accountNoOverride string) (Result, error) {
	format, err := detect.Format(filename, contentType)
	if err != nil {
		return Result{}, err
	}

	fp, err := e.profiles.ProfileFor(parserKey, format)
	if err != nil {
		return Result{}, err
	}

	var result Result
	switch format {
	case model.CSV:
		result, err = parseDelimited(stream, fp, parserKey)
	case model.XLSX:
		result, err = parseXLSX(stream, fp, parserKey)
	case model.XLS:
		result, err = parseXLS(stream, fp, parserKey)
	case model.PDF:
		result, err = parsePDF(stream, fp, parserKey)
	default:
		return Result{}, engerr.New(engerr.UnsupportedFormat, parserKey, format, "", "no parser registered for this format")
	}
	if err != nil {
		return Result{}, err
	}

	result.Format = format
	if accountNoOverride != "" {
		result.Metadata.AccountNumber = accountNoOverride
	}
	return result, nil
}

func charsetDecoder(charset string) (func(string) string, error) {
	if charset == "" || strings.EqualFold(charset, "UTF-8") {
		return func(s string) string { return s }, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, err
	}
	decoder := enc.NewDecoder()
	return func(s string) string {
		out, err := decoder.String(s)
		if err != nil {
			return s
		}
		return out
	}, nil
}
