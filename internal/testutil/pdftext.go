package testutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// TextRun is one string drawn by a text operator, at its baseline position
// in points from the bottom left corner of the page
type TextRun struct {
	X, Y float64
	Text string
}

// textOp matches the single string cell operator gofpdf writes, e.g.
// "BT 56.69 760.20 Td (...)Tj ET"
var textOp = regexp.MustCompile(`BT ([0-9.\-]+) ([0-9.\-]+) Td \(((?:\\.|[^\\)])*)\) ?Tj ET`)

// PDFTextRuns decodes every text run of an uncompressed PDF drawn with a
// UTF-8 font, in drawing order
func PDFTextRuns(data []byte) []TextRun {
	var runs []TextRun
	for _, m := range textOp.FindAllSubmatch(data, -1) {
		x, _ := strconv.ParseFloat(string(m[1]), 64)
		y, _ := strconv.ParseFloat(string(m[2]), 64)
		runs = append(runs, TextRun{X: x, Y: y, Text: decodeUTF16(unescape(m[3]))})
	}
	return runs
}

// PDFText joins the decoded runs of an uncompressed PDF with newlines
func PDFText(data []byte) string {
	runs := PDFTextRuns(data)
	lines := make([]string, 0, len(runs))
	for _, r := range runs {
		lines = append(lines, r.Text)
	}
	return strings.Join(lines, "\n")
}

// unescape reverses PDF literal string escaping
func unescape(s []byte) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out = append(out, s[i])
			continue
		}
		i++
		switch s[i] {
		case 'r':
			out = append(out, '\r')
		case 'n':
			out = append(out, '\n')
		default:
			out = append(out, s[i])
		}
	}
	return out
}

func decodeUTF16(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}
