package layout

import (
	"strings"
	"unicode/utf8"
)

// CellPadding is the horizontal inset of text inside its box, in px
const CellPadding = 6.0

// TextMeasure returns the width in px of text set at size pt
type TextMeasure func(text string, size float64, bold bool) float64

// EstimateWidth sizes every rune at a fixed share of the em. It is used when
// Compute is given no font metrics.
func EstimateWidth(text string, size float64, bold bool) float64 {
	em := 0.58
	if bold {
		em = 0.62
	}
	return float64(utf8.RuneCountInString(text)) * PtToPx(size) * em
}

// Line is one wrapped line of text with its style
type Line struct {
	Text  string  `json:"text"`
	Size  float64 `json:"size"`
	Bold  bool    `json:"bold,omitempty"`
	Color string  `json:"color"`
	// Space is the gap above the line in px
	Space float64 `json:"space,omitempty"`
}

// Height is the vertical space the line takes in px
func (l Line) Height() float64 {
	return l.Space + LineHeight(l.Size)
}

func linesHeight(lines []Line) float64 {
	h := 0.0
	for _, l := range lines {
		h += l.Height()
	}
	return h
}

// wrapper breaks text with one measure
type wrapper struct {
	measure TextMeasure
}

// Wrap breaks text into lines no wider than width px. Newlines always
// break, runs of whitespace collapse and a word wider than a line is split
// between runes. The result has at least one line.
func (w wrapper) Wrap(text string, width, size float64, bold bool) []string {
	fits := func(s string) bool { return w.measure(s, size, bold) <= width }

	var lines []string
	for _, para := range strings.Split(Clean(text), "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if fits(candidate) {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for word != "" && !fits(word) {
				head := longestPrefix(word, fits)
				lines = append(lines, head)
				word = word[len(head):]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// styled wraps text into lines that share one style
func (w wrapper) styled(text string, width, size float64, bold bool, color string) []Line {
	wrapped := w.Wrap(text, width, size, bold)
	lines := make([]Line, 0, len(wrapped))
	for _, t := range wrapped {
		lines = append(lines, Line{Text: t, Size: size, Bold: bold, Color: color})
	}
	return lines
}

// longestPrefix returns the longest prefix of word that fits, never less
// than one rune
func longestPrefix(word string, fits func(string) bool) string {
	_, end := utf8.DecodeRuneInString(word)
	for end < len(word) {
		_, size := utf8.DecodeRuneInString(word[end:])
		if !fits(word[:end+size]) {
			break
		}
		end += size
	}
	return word[:end]
}

// Clean normalizes line endings and replaces runes outside the basic
// multilingual plane, which the PDF text encoding cannot carry.
func Clean(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '?'
		}
		return r
	}, text)
}
