// Package testcase reads and writes the line-oriented regression-test
// format described by spec.md §6: one statement per line, keywords
// system/repo/pool/solvable/job/result/disable/enable/feature/
// namespace/nextjob, whitespace-separated values. Write reproduces
// blank and comment lines verbatim; a statement line is written with
// its leading and trailing whitespace dropped and each run of
// whitespace between values reduced to a single space.
package testcase

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Statement is one line of a testcase file. Blank lines and comment
// lines (starting with "#") are preserved verbatim in Raw with an
// empty Keyword so Write can reproduce them.
type Statement struct {
	Keyword string
	Args    []string
	Raw     string // set only for comment/blank passthrough lines
}

// File is a fully parsed testcase document, statements in file order.
type File struct {
	Statements []Statement
}

// Parse reads a testcase document from r.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			f.Statements = append(f.Statements, Statement{Raw: line})
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) == 0 {
			continue
		}
		f.Statements = append(f.Statements, Statement{Keyword: fields[0], Args: fields[1:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("testcase: reading line %d: %w", lineNo, err)
	}
	return f, nil
}

// Write serializes f back to its line-oriented text form.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, st := range f.Statements {
		if st.Keyword == "" {
			if _, err := fmt.Fprintln(bw, st.Raw); err != nil {
				return err
			}
			continue
		}
		parts := append([]string{st.Keyword}, st.Args...)
		if _, err := fmt.Fprintln(bw, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ByKeyword returns every statement whose Keyword matches kw, in file
// order, skipping comment/blank passthrough entries.
func (f *File) ByKeyword(kw string) []Statement {
	var out []Statement
	for _, st := range f.Statements {
		if st.Keyword == kw {
			out = append(out, st)
		}
	}
	return out
}
