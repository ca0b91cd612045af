package engine

import (
	"io"
	"strings"

	"github.com/ledgerflow/statement-engine/internal/header"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
	"github.com/ledgerflow/statement-engine/internal/row"
	"github.com/ledgerflow/statement-engine/internal/xlsxsrc"
)

func parseXLSX(stream io.Reader, fp *profile.FormatProfile, parserKey string) (Result, error) {
	src, err := xlsxsrc.Open(stream, parserKey, fp.SheetIndex)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	return materializeGrid(src, fp, parserKey, model.XLSX)
}

func materializeGrid(src header.MergedSource, fp *profile.FormatProfile, parserKey string, format model.FormatKind) (Result, error) {
	var res header.Resolution
	var err error

	if fp.Headers.Mode == profile.HeaderFixed {
		res = header.ResolveFixed(fp.Headers)
	} else {
		res, err = header.ResolveSearch(src, fp.Headers, parserKey, format)
		if err != nil {
			return Result{}, err
		}
	}

	rows, err := row.MaterializeSpreadsheet(src, res.DataRowStart, res.Columns, fp, parserKey, format)
	if err != nil {
		return Result{}, err
	}

	var banner strings.Builder
	for r := 0; r < res.DataRowStart; r++ {
		for c := 0; c < src.ColCount(); c++ {
			banner.WriteString(src.CellText(r, c))
			banner.WriteString(" ")
		}
		banner.WriteString("\n")
	}
	meta := row.ExtractMetadata(banner.String(), defaultHolderLabels)

	return Result{Rows: rows, Metadata: meta}, nil
}
