package ports

import (
	"io"

	"github.com/rs/zerolog"

	"depcore/internal/testcase"
)

// TestcaseFormatPort parses and reserializes the line-oriented
// testcase document format and materializes it into a pool ready to
// solve, mirroring the teacher's ProductSpecPort/ProfileSpecPort pair
// of "parse a document" plus "turn it into the domain object a use
// case actually runs against".
type TestcaseFormatPort interface {
	Parse(r io.Reader) (*testcase.File, error)
	Write(f *testcase.File, w io.Writer) error
	Build(f *testcase.File, nativeArch string, log zerolog.Logger) (*testcase.Built, error)
}
