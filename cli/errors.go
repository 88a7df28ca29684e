package cli

import (
	"bytes"
	"strings"

	"github.com/lialzmChina/beancount/parser"
)

// ErrorRenderer formats parse errors for the terminal in bean-check style:
// the message, then a short excerpt of the source with a caret pointing at
// the offending column.
type ErrorRenderer struct {
	sourceLines []string
}

// NewErrorRenderer creates a renderer over the given source content.
// Source may be nil, in which case only messages are rendered.
func NewErrorRenderer(source []byte) *ErrorRenderer {
	r := &ErrorRenderer{}
	if source != nil {
		r.sourceLines = strings.Split(string(source), "\n")
	}
	return r
}

// Render formats a single error.
func (r *ErrorRenderer) Render(err *parser.Error) string {
	var buf bytes.Buffer

	buf.WriteString(err.Error())

	if len(r.sourceLines) > 0 && err.Pos.Line >= 1 {
		buf.WriteString("\n\n")
		r.writeExcerpt(&buf, err.Pos.Line, err.Pos.Column)
	}

	return buf.String()
}

// RenderAll formats multiple errors separated by blank lines.
func (r *ErrorRenderer) RenderAll(errs []*parser.Error) string {
	var buf bytes.Buffer

	for i, err := range errs {
		buf.WriteString(r.Render(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// writeExcerpt shows the error line with one line of context either side
// and a caret under the error column.
func (r *ErrorRenderer) writeExcerpt(buf *bytes.Buffer, line, column int) {
	start := line - 2 // 0-based, one line of leading context
	end := line       // one line of trailing context, inclusive

	if start < 0 {
		start = 0
	}
	if end >= len(r.sourceLines) {
		end = len(r.sourceLines) - 1
	}

	for i := start; i <= end; i++ {
		buf.WriteString("   ")
		buf.WriteString(r.sourceLines[i])
		buf.WriteByte('\n')

		if i == line-1 && column > 0 {
			buf.WriteString("   ")
			for j := 0; j < column-1; j++ {
				buf.WriteByte(' ')
			}
			buf.WriteString("^\n")
		}
	}
}
