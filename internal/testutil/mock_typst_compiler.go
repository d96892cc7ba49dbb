package testutil

import (
	"context"

	"github.com/flexprice/invoicer/internal/typst"
	"github.com/stretchr/testify/mock"
)

var _ typst.Compiler = (*MockTypstCompiler)(nil)

// MockTypstCompiler is a mock implementation of typst.Compiler
type MockTypstCompiler struct {
	mock.Mock
}

func (m *MockTypstCompiler) Compile(ctx context.Context, opts typst.CompileOpts) (string, error) {
	args := m.Called(ctx, opts)
	return args.String(0), args.Error(1)
}

func (m *MockTypstCompiler) CompileToBytes(ctx context.Context, opts typst.CompileOpts) ([]byte, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTypstCompiler) CompileTemplate(ctx context.Context, templateName string, data []byte, opts ...typst.CompileOptsBuilder) ([]byte, error) {
	args := m.Called(ctx, templateName, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTypstCompiler) CleanupGeneratedFiles(files ...string) {}
