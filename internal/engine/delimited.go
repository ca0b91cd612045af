package engine

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/header"
	"github.com/ledgerflow/statement-engine/internal/model"
	"github.com/ledgerflow/statement-engine/internal/profile"
	"github.com/ledgerflow/statement-engine/internal/row"
)

func parseDelimited(stream io.Reader, fp *profile.FormatProfile, parserKey string) (Result, error) {
	decode, err := charsetDecoder(fp.Charset)
	if err != nil {
		return Result{}, engerr.Wrap(engerr.MalformedProfile, parserKey, model.CSV, "", err)
	}

	raw, err := io.ReadAll(stream)
	if err != nil {
		return Result{}, engerr.Wrap(engerr.IoFailure, parserKey, model.CSV, "", err)
	}

	reader := csv.NewReader(bufio.NewReader(strings.NewReader(decode(string(raw)))))
	reader.FieldsPerRecord = -1
	reader.Comma = fp.Delimiter
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, engerr.Wrap(engerr.IoFailure, parserKey, model.CSV, "", err)
	}
	if fp.SkipRows > 0 && fp.SkipRows < len(records) {
		records = records[fp.SkipRows:]
	}

	var cols map[model.SemanticField]int
	var dataRowStart int

	if fp.Headers.Mode == profile.HeaderFixed {
		res := header.ResolveFixed(fp.Headers)
		cols, dataRowStart = res.Columns, res.DataRowStart
	} else {
		res, err := header.ResolveDelimitedSearch(records, fp.Headers, parserKey)
		if err != nil {
			return Result{}, err
		}
		cols, dataRowStart = res.Columns, res.DataRowStart
	}

	rows, err := row.MaterializeDelimited(records, dataRowStart, cols, fp, parserKey)
	if err != nil {
		return Result{}, err
	}

	var meta row.Metadata
	if dataRowStart > 0 {
		meta = row.ExtractMetadata(strings.Join(flattenRows(records[:dataRowStart]), "\n"), defaultHolderLabels)
	}

	return Result{Rows: rows, Metadata: meta}, nil
}

var defaultHolderLabels = []string{"Account holder", "Account name", "Customer name"}

func flattenRows(records [][]string) []string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = strings.Join(r, " ")
	}
	return lines
}
