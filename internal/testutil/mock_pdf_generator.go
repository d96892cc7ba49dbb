package testutil

import (
	"context"

	"github.com/flexprice/invoicer/internal/layout"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/stretchr/testify/mock"
)

var _ pdf.Generator = (*MockPDFGenerator)(nil)

type MockPDFGenerator struct {
	mock.Mock
}

func NewMockPDFGenerator() *MockPDFGenerator {
	return &MockPDFGenerator{}
}

// Render implements pdf.Generator
func (m *MockPDFGenerator) Render(ctx context.Context, l *layout.Layout) (*pdf.Result, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pdf.Result), args.Error(1)
}

// Engine implements pdf.Generator
func (m *MockPDFGenerator) Engine() types.PDFEngine {
	return types.PDFEngineGofpdf
}
