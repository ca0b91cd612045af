package profile

import (
	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
)

// ProfileFor locates the sub-profile for a (parserKey, formatKind) pair
// (spec §4.2). Key comparison is case-insensitive after trimming.
func (t *Tree) ProfileFor(parserKey string, kind model.FormatKind) (*FormatProfile, error) {
	bank := t.Bank(parserKey)
	if bank == nil {
		return nil, engerr.New(engerr.UnknownParserKey, parserKey, kind, "", "no bank profile registered for this parser key")
	}
	if !bank.Enabled {
		return nil, engerr.New(engerr.FormatNotConfigured, parserKey, kind, "", "bank profile is disabled")
	}
	fp := bank.ForFormat(kind)
	if fp == nil || !fp.Enabled {
		return nil, engerr.New(engerr.FormatNotConfigured, parserKey, kind, "", "format is not configured for this bank")
	}
	return fp, nil
}
