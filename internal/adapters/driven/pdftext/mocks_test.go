package pdftext

import "context"

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error

	name string
	args []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

// stubExtractor is a test double for driven.TextExtractor.
type stubExtractor struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubExtractor) ExtractText(_ context.Context, _ string, _ bool) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubExtractor) Name() string {
	return s.name
}
