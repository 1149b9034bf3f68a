package errors

import (
	"fmt"

	"github.com/pontaoski/kaleido/types"
)

// ParseError is a malformed token sequence.
type ParseError struct {
	Msg      string
	Got      types.Token
	Location types.Span
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s, got %s. %s", e.Msg, e.Got, e.Location)
}

func NewParseError(msg string, got types.Token) ParseError {
	return ParseError{
		Msg:      msg,
		Got:      got,
		Location: got.Location,
	}
}

type DuplicateParameter struct {
	Name     string
	Function string
	Location types.Span
}

func (e DuplicateParameter) Error() string {
	return fmt.Sprintf("parameter %s specified more than once in %s. %s", e.Name, e.Function, e.Location)
}

// LowerError is a well formed construct that cannot be lowered: unknown
// names, arity mismatches, redefinitions and unsupported operators.
type LowerError struct {
	Msg      string
	Name     string
	Location types.Span
}

func (e LowerError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s. %s", e.Msg, e.Location)
	}
	return fmt.Sprintf("%s '%s'. %s", e.Msg, e.Name, e.Location)
}

func NewLowerError(loc types.Span, name, msg string, fmts ...interface{}) LowerError {
	return LowerError{
		Msg:      fmt.Sprintf(msg, fmts...),
		Name:     name,
		Location: loc,
	}
}

// IsParse reports whether err belongs to the parse error family.
func IsParse(err error) bool {
	switch err.(type) {
	case ParseError, DuplicateParameter:
		return true
	}
	return false
}

// IsLower reports whether err is a lowering error.
func IsLower(err error) bool {
	_, ok := err.(LowerError)
	return ok
}
