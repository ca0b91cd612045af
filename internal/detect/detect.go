// Package detect identifies a document's FormatKind from its filename and,
// failing that, its content type (spec §4.1, Format Detector).
package detect

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
)

var extensions = map[string]model.FormatKind{
	".csv":  model.CSV,
	".xls":  model.XLS,
	".xlsx": model.XLSX,
	".pdf":  model.PDF,
}

// Format resolves a FormatKind by extension first, falling back to a
// substring match against the content type's MIME hint when the extension
// is absent or unrecognized (spec §4.1): "csv", "spreadsheetml" (xlsx),
// "excel" (xls), "pdf". spreadsheetml is checked before excel since the
// xlsx MIME type contains neither term ambiguously but xls's legacy type
// does carry "excel" outright. Neither source matching returns
// UnsupportedFormat.
func Format(filename, contentType string) (model.FormatKind, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if kind, ok := extensions[ext]; ok {
		return kind, nil
	}

	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			mediaType = strings.TrimSpace(contentType)
		}
		mediaType = strings.ToLower(mediaType)

		switch {
		case strings.Contains(mediaType, "csv"):
			return model.CSV, nil
		case strings.Contains(mediaType, "spreadsheetml"):
			return model.XLSX, nil
		case strings.Contains(mediaType, "excel"):
			return model.XLS, nil
		case strings.Contains(mediaType, "pdf"):
			return model.PDF, nil
		}
	}

	msg := fmt.Sprintf("cannot determine format from filename %q or content type %q", filename, contentType)
	return "", engerr.New(engerr.UnsupportedFormat, "", "", "", msg)
}
