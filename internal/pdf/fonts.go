package pdf

import (
	_ "embed"
	"sync"

	"github.com/flexprice/invoicer/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

// fontFamily is the embedded UTF-8 family every PDF is set in. It covers
// Latin, Greek and Cyrillic scripts and the currency symbols in use.
const fontFamily = "DejaVu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

func registerFonts(f *gofpdf.Fpdf) {
	f.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	f.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
}

// metrics is a document kept only to measure strings
var metrics struct {
	once sync.Once
	mu   sync.Mutex
	pdf  *gofpdf.Fpdf
}

// MeasureText returns the width in px of text set at size pt in the font
// the PDF is drawn with. It satisfies layout.TextMeasure.
func MeasureText(text string, size float64, bold bool) float64 {
	metrics.once.Do(func() {
		metrics.pdf = gofpdf.New("P", "pt", "A4", "")
		registerFonts(metrics.pdf)
	})

	style := ""
	if bold {
		style = "B"
	}

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	metrics.pdf.SetFont(fontFamily, style, size)
	return metrics.pdf.GetStringWidth(text) / layout.PtPerPx
}

var _ layout.TextMeasure = MeasureText
