package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/voucherbill/internal/core/domain"
	"github.com/custodia-labs/voucherbill/internal/core/ports/driven"
	"github.com/custodia-labs/voucherbill/internal/logger"
)

// Ensure Native implements the interface.
var _ driven.TextExtractor = (*Native)(nil)

// Native extracts text in process, without external tools.
type Native struct{}

// NewNative creates a pure Go extractor.
func NewNative() *Native {
	return &Native{}
}

// Name identifies the backend.
func (n *Native) Name() string {
	return string(domain.PDFBackendNative)
}

// ExtractText reads the text of the first page, or all pages, of path.
// Rows are rebuilt from glyph positions so each printed line becomes one
// text line.
func (n *Native) ExtractText(ctx context.Context, path string, allPages bool) (text string, err error) {
	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	if !allPages && pages > 1 {
		pages = 1
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := pageRows(page)
		if err != nil {
			logger.Debug("pdftext: page %d rows failed (%v), using plain text", i, err)
			pageText, err = page.GetPlainText(nil)
			if err != nil {
				return "", fmt.Errorf("read page %d: %w", i, err)
			}
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(pageText)
	}

	return strings.TrimSpace(sb.String()), nil
}

// pageRows joins the glyph runs of each row in reading order.
func pageRows(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var sb strings.Builder
		for _, t := range row.Content {
			sb.WriteString(t.S)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n"), nil
}
