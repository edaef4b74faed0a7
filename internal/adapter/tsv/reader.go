// Package tsv reads trial parameter lines and writes the tab-separated
// climate-stress report.
package tsv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// LineReader yields the raw lines of an input file together with their
// 1-based line numbers. Lines keep their terminator. A last line without a
// terminator is still returned.
type LineReader struct {
	r    *bufio.Reader
	line int
	text string
	err  error
}

// NewLineReader wraps r. Lines have no length limit.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// Next advances to the next line. It returns false at end of input or on a
// read error; Err distinguishes the two.
func (l *LineReader) Next() bool {
	if l.err != nil {
		return false
	}
	text, err := l.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = fmt.Errorf("read line %d: %w", l.line+1, err)
			return false
		}
		l.err = io.EOF
		if text == "" {
			return false
		}
	}
	l.line++
	l.text = text
	return true
}

// Line returns the current line number, starting at 1.
func (l *LineReader) Line() int { return l.line }

// Text returns the current raw line.
func (l *LineReader) Text() string { return l.text }

// Err returns the first non-EOF read error.
func (l *LineReader) Err() error {
	if errors.Is(l.err, io.EOF) {
		return nil
	}
	return l.err
}
