package engine

import (
	"io"

	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
	"github.com/ledgerflow/statement-engine/internal/xlssrc"
)

func parseXLS(stream io.Reader, fp *profile.FormatProfile, parserKey string) (Result, error) {
	src, err := xlssrc.Open(stream, fp.Charset, parserKey, fp.SheetIndex)
	if err != nil {
		return Result{}, err
	}

	return materializeGrid(src, fp, parserKey, model.XLS)
}
