package adapters

import (
	"io"

	"github.com/rs/zerolog"

	"depcore/internal/ports"
	"depcore/internal/testcase"
)

var _ ports.TestcaseFormatPort = TestcaseAdapter{}

// TestcaseAdapter implements ports.TestcaseFormatPort over
// internal/testcase's package-level Parse/Write/Build functions.
type TestcaseAdapter struct{}

func (TestcaseAdapter) Parse(r io.Reader) (*testcase.File, error) { return testcase.Parse(r) }

func (TestcaseAdapter) Write(f *testcase.File, w io.Writer) error { return f.Write(w) }

func (TestcaseAdapter) Build(f *testcase.File, nativeArch string, log zerolog.Logger) (*testcase.Built, error) {
	return testcase.Build(f, nativeArch, log)
}
