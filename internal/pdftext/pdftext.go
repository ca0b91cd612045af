// Package pdftext extracts a textual-layer PDF's content as one string per
// page (spec §4.1, pdf format). Adapted from the teacher's multi-method
// extractor: several extraction strategies are tried in order of layout
// fidelity, each validated by a readability heuristic before being
// accepted, falling back to the external pdftotext (poppler-utils) binary
// as a last resort for PDFs the pure-Go library cannot decode.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/ledgerflow/statement-engine/internal/engerr"
	"github.com/ledgerflow/statement-engine/internal/model"
)

// Extract reads a PDF stream and returns its text, one entry per page.
func Extract(r io.Reader, parserKey string) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.PDF, "", err)
	}

	pages, libErr := extractWithLibrary(data)
	if libErr == nil && IsReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(data)
	if popplerErr == nil && IsReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, engerr.Wrap(engerr.IoFailure, parserKey, model.PDF, "",
			fmt.Errorf("PDF text extraction failed: %v; the file may use custom fonts or be image-based", libErr))
	}
	return nil, engerr.New(engerr.IoFailure, parserKey, model.PDF, "",
		"no readable text could be extracted from PDF; the file may be image-based/scanned or use custom font encodings")
}

// textQuality returns the ratio of plain ASCII readable characters to
// total characters, to detect garbage from unresolvable font encodings.
func textQuality(pages []string) float64 {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"£$€%&@#!?+=*`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

var commonWords = []string{
	"bank", "account", "balance", "date", "payment", "statement",
	"total", "amount", "credit", "debit", "transaction", "sort code",
	"money", "paid", "opening", "closing", "transfer", "direct",
	"number", "page", "period",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// IsReadableText requires enough text, a high readable-character ratio, and
// at least one recognizable bank-statement word — any one of these failing
// means the extraction method produced garbage, not a genuinely sparse page.
func IsReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

func extractWithPdftotext(data []byte) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if _, err := tmp.Write(data); err != nil {
		return nil, err
	}
	path := tmp.Name()

	numPages := 1
	if out, err := exec.Command("pdfinfo", path).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				if n, perr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:"))); perr == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", pageStr, "-l", pageStr, path, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) > 0 {
		return pages, nil
	}

	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %v", err)
	}
	if text := strings.TrimSpace(string(out)); text != "" {
		return []string{text}, nil
	}
	return nil, fmt.Errorf("pdftotext produced no output")
}

func extractWithLibrary(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	r, openErr := pdf.NewReader(reader, int64(len(data)))
	if openErr != nil {
		return nil, openErr
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if IsReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if IsReadableText(pages) {
		return pages, nil
	}

	pages = extractByPagePlainText(r, numPages)
	if IsReadableText(pages) {
		return pages, nil
	}

	plainText := extractByReaderPlainText(r)
	if IsReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPagePlainText(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		fontNames := page.Fonts()
		fonts := make(map[string]*pdf.Font)
		for _, name := range fontNames {
			f := page.Font(name)
			fonts[name] = &f
		}

		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
