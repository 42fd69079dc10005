package pdf

import (
	"regexp"
	"strings"
)

// Page geometry in points, US Letter.
const (
	PageWidth        = 612.0
	PageHeight       = 792.0
	Margin           = 72.0
	FontSize         = 12.0
	LineHeight       = FontSize * 1.5
	ParagraphSpacing = 6.0

	contentWidth = PageWidth - 2*Margin
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Measure returns the rendered width of s, in points, at FontSize.
type Measure func(s string) float64

// Line is one line of text placed on a page. Y is the baseline measured
// from the bottom of the page.
type Line struct {
	Text string
	X, Y float64
}

type LaidOutPage struct {
	Lines []Line
}

// Layout is the result of laying out a text, page by page.
type Layout struct {
	Pages []LaidOutPage
}

// LayoutText wraps text greedily to the content width and paginates it.
// Paragraphs are separated by blank lines; single newlines inside a
// paragraph are treated as spaces. The result always has at least one page.
func LayoutText(text string, measure Measure) Layout {
	l := Layout{Pages: []LaidOutPage{{}}}
	y := PageHeight - Margin

	draw := func(s string) {
		if y < Margin+LineHeight {
			l.Pages = append(l.Pages, LaidOutPage{})
			y = PageHeight - Margin
		}
		cur := &l.Pages[len(l.Pages)-1]
		cur.Lines = append(cur.Lines, Line{Text: s, X: Margin, Y: y})
	}

	for _, para := range Paragraphs(text) {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) > contentWidth && line != "" {
				draw(line)
				y -= LineHeight
				line = word
				continue
			}
			line = candidate
		}
		if line != "" {
			draw(line)
			y -= LineHeight + ParagraphSpacing
		}
	}
	return l
}

// Paragraphs splits text on blank lines and drops empty blocks.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
