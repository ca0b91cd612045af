package engine

import (
	"io"
	"strings"

	"github.com/ledgerflow/statement-engine/internal/pdftext"
	"github.com/ledgerflow/statement-engine/internal/profile"
	"github.com/ledgerflow/statement-engine/internal/row"
)

func parsePDF(stream io.Reader, fp *profile.FormatProfile, parserKey string) (Result, error) {
	pages, err := pdftext.Extract(stream, parserKey)
	if err != nil {
		return Result{}, err
	}

	var lines []string
	for _, p := range pages {
		lines = append(lines, strings.Split(p, "\n")...)
	}

	rows, err := row.MaterializePDF(lines, fp, parserKey)
	if err != nil {
		return Result{}, err
	}

	meta := row.ExtractMetadata(strings.Join(pages, "\n"), defaultHolderLabels)
	return Result{Rows: rows, Metadata: meta}, nil
}
