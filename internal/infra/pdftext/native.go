// Package pdftext implements extractor.PDFParser.
package pdftext

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/yanqian/legal-assistant/internal/domain/extractor"
)

const (
	defaultFontSize = 12.0
	// rowTolerance is the share of the font size two glyphs may differ in
	// baseline and still sit on the same row.
	rowTolerance = 0.3
	// paragraphGap is the baseline distance, in font sizes, above which two
	// rows are separated by a blank line.
	paragraphGap = 1.5
	// wordGap is the horizontal gap, in font sizes, that reads as a space.
	wordGap = 0.2
)

// Native parses PDFs in process. Text is rebuilt from glyph positions so
// line and paragraph breaks survive: rows end in "\n", and a vertical gap
// wider than 1.5 line heights (or a page break) becomes a blank line.
type Native struct{}

// NewNative constructs the in-process parser.
func NewNative() *Native {
	return &Native{}
}

// ExtractText returns the text of every page in order.
func (n *Native) ExtractText(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if body := layoutPage(page.Content().Text); body != "" {
			pages = append(pages, body)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

type row struct {
	y      float64
	size   float64
	glyphs []pdf.Text
}

// layoutPage groups glyphs into rows by baseline, top to bottom, and joins
// them left to right.
func layoutPage(glyphs []pdf.Text) string {
	if len(glyphs) == 0 {
		return ""
	}
	ordered := make([]pdf.Text, len(glyphs))
	copy(ordered, glyphs)
	// Stable keeps content stream order for glyphs that share a position.
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Y > ordered[j].Y })

	var rows []*row
	for _, g := range ordered {
		size := fontSize(g)
		if n := len(rows); n > 0 && math.Abs(rows[n-1].y-g.Y) <= rowTolerance*math.Max(size, rows[n-1].size) {
			rows[n-1].glyphs = append(rows[n-1].glyphs, g)
			rows[n-1].size = math.Max(rows[n-1].size, size)
			continue
		}
		rows = append(rows, &row{y: g.Y, size: size, glyphs: []pdf.Text{g}})
	}

	var b strings.Builder
	for i, r := range rows {
		line := strings.TrimRight(joinRow(r), " \t")
		if i > 0 {
			b.WriteByte('\n')
			if rows[i-1].y-r.y > paragraphGap*math.Max(r.size, rows[i-1].size) {
				b.WriteByte('\n')
			}
		}
		b.WriteString(line)
	}
	return strings.TrimSpace(b.String())
}

func joinRow(r *row) string {
	sort.SliceStable(r.glyphs, func(i, j int) bool { return r.glyphs[i].X < r.glyphs[j].X })
	var b strings.Builder
	for i, g := range r.glyphs {
		if i > 0 {
			prev := r.glyphs[i-1]
			gap := g.X - (prev.X + prev.W)
			if prev.W > 0 && gap > wordGap*fontSize(g) && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}

func fontSize(g pdf.Text) float64 {
	if g.FontSize > 0 {
		return g.FontSize
	}
	return defaultFontSize
}

var _ extractor.PDFParser = (*Native)(nil)
