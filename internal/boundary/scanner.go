package boundary

import (
	"bufio"
	"io"
	"strings"

	kerrors "kgram/internal/errors"
)

// Markers holds the literal line prefixes that delimit a document body.
type Markers struct {
	HeaderEnd   []string `yaml:"header_markers"`
	FooterStart []string `yaml:"footer_markers"`
}

// DefaultMarkers returns the Project Gutenberg boilerplate markers.
func DefaultMarkers() Markers {
	return Markers{
		HeaderEnd: []string{
			"*** START OF THE PROJECT GUTENBERG EBOOK",
			"*** START OF THIS PROJECT GUTENBERG EBOOK",
			"*END*THE SMALL PRINT!",
			"***START OF THE PROJECT GUTENBERG EBOOK",
		},
		FooterStart: []string{
			"*** END OF THE PROJECT GUTENBERG EBOOK",
			"The end of the Project Gutenberg e-text of",
		},
	}
}

// IsHeaderEnd reports whether line starts with a header-end marker.
func (m Markers) IsHeaderEnd(line string) bool { return hasAnyPrefix(line, m.HeaderEnd) }

// IsFooterStart reports whether line starts with a footer-start marker.
func (m Markers) IsFooterStart(line string) bool { return hasAnyPrefix(line, m.FooterStart) }

func hasAnyPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		// HasPrefix already requires len(line) >= len(p)
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

const maxLineSize = 16 * 1024 * 1024

// Scanner yields the body lines of a document: everything after the
// header-end marker line and before the first footer-start marker line.
// It follows the bufio.Scanner calling convention.
type Scanner struct {
	markers Markers
	lines   *bufio.Scanner
	inBody  bool
	done    bool
	read    int
	line    string
	err     error
}

// NewScanner creates a Scanner reading raw lines from r.
func NewScanner(r io.Reader, markers Markers) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Scanner{markers: markers, lines: sc}
}

// Scan advances to the next body line. It returns false at the footer, at
// end of input, or on error; Err distinguishes the cases.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	if !s.inBody && !s.skipHeader() {
		return false
	}
	if !s.next() {
		return s.stop(s.lines.Err())
	}
	if s.markers.IsFooterStart(s.line) {
		return s.stop(nil)
	}
	return true
}

// Text returns the current body line without its line terminator.
func (s *Scanner) Text() string { return s.line }

// Err returns the first error encountered, including a MissingHeaderError
// when input ended before a header-end marker.
func (s *Scanner) Err() error { return s.err }

// LinesRead returns the number of raw lines consumed so far.
func (s *Scanner) LinesRead() int { return s.read }

func (s *Scanner) skipHeader() bool {
	for s.next() {
		if s.markers.IsHeaderEnd(s.line) {
			s.inBody = true
			return true
		}
	}
	if err := s.lines.Err(); err != nil {
		return s.stop(err)
	}
	return s.stop(kerrors.NewMissingHeaderError(s.read))
}

func (s *Scanner) next() bool {
	if !s.lines.Scan() {
		s.line = ""
		return false
	}
	s.read++
	s.line = strings.TrimSuffix(s.lines.Text(), "\r")
	return true
}

func (s *Scanner) stop(err error) bool {
	s.done = true
	s.line = ""
	s.err = err
	return false
}

// Lines returns the body of an in-memory line sequence.
func Lines(lines []string, markers Markers) ([]string, error) {
	start := -1
	for i, l := range lines {
		if markers.IsHeaderEnd(l) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, kerrors.NewMissingHeaderError(len(lines))
	}
	body := lines[start:]
	for i, l := range body {
		if markers.IsFooterStart(l) {
			return body[:i], nil
		}
	}
	return body, nil
}
