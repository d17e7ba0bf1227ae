package synth

import (
	"fmt"
	"strings"
)

// source accumulates generated text line by line.
type source struct {
	b strings.Builder
}

// line appends one line with trailing whitespace trimmed.
func (s *source) line(format string, args ...any) {
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	s.b.WriteString(strings.TrimRight(text, " \t"))
	s.b.WriteByte('\n')
}

func (s *source) blank() {
	s.b.WriteByte('\n')
}

func (s *source) raw(text string) {
	s.b.WriteString(text)
}

func (s *source) String() string {
	return s.b.String()
}
