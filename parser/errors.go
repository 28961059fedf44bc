package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/internal/token"
	"github.com/hashicorp/go-multierror"
)

// ParserError is a syntax error found at a specific position in the input.
// It unwraps to an *errz.Error of kind errz.Syntax.
type ParserError struct {
	Position token.Position
	Err      *errz.Error
}

func newParserError(pos token.Position, format string, args ...any) *ParserError {
	return &ParserError{
		Position: pos,
		Err:      errz.Errorf(errz.Syntax, format, args...),
	}
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Position, e.Err)
}

func (e *ParserError) Unwrap() error {
	return e.Err
}

// Errors returns the individual parser errors held by err, which is
// expected to be an error returned by Parse.
func Errors(err error) []*ParserError {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		var perr *ParserError
		if errors.As(err, &perr) {
			return []*ParserError{perr}
		}
		return nil
	}
	var result []*ParserError
	for _, e := range merr.Errors {
		if perr, ok := e.(*ParserError); ok {
			result = append(result, perr)
		}
	}
	return result
}

// formatErrors renders a single error as-is and several errors as a list.
func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, "\t* "+err.Error())
	}
	return fmt.Sprintf("%d syntax errors:\n%s", len(errs), strings.Join(lines, "\n"))
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	default:
		if t.Literal == "" {
			return string(t.Type)
		}
		return fmt.Sprintf("%q", t.Literal)
	}
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	default:
		return fmt.Sprintf("%q", string(t))
	}
}

// IsIncomplete reports whether err is a parse failure caused only by the
// input ending early, so that more input could complete it.
func IsIncomplete(err error) bool {
	errs := Errors(err)
	if len(errs) == 0 {
		return false
	}
	last := errs[len(errs)-1].Err.Message
	return strings.Contains(last, "end of file") || strings.HasPrefix(last, "unterminated block")
}

// Snippet renders the source line holding the error with a caret under the
// offending column. It returns "" when the position is outside source.
func (e *ParserError) Snippet(source string) string {
	lines := strings.Split(source, "\n")
	if e.Position.Line < 0 || e.Position.Line >= len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[e.Position.Line], "\r")
	if e.Position.Column > len(line) {
		return ""
	}
	var b strings.Builder
	b.WriteString(" | ")
	b.WriteString(line)
	b.WriteString("\n | ")
	b.WriteString(strings.Repeat(" ", e.Position.Column))
	b.WriteString("^")
	return b.String()
}

// FriendlyErrorMessage returns the message of err followed by a source
// snippet for each parser error it holds.
func FriendlyErrorMessage(err error, source string) string {
	var b strings.Builder
	b.WriteString(err.Error())
	for _, perr := range Errors(err) {
		if snippet := perr.Snippet(source); snippet != "" {
			b.WriteString("\n")
			b.WriteString(snippet)
		}
	}
	return b.String()
}
