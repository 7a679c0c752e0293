package checker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/derivacheck/internal/derivation"
	"github.com/abhisek/derivacheck/internal/normalizer"
	"github.com/abhisek/derivacheck/internal/symbolic"
)

// EmptyInputError reports request fields that must not be empty.
type EmptyInputError struct {
	Fields []string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", strings.Join(e.Fields, ", "))
}

// Stable error kinds for API responses.
const (
	KindParse               = "parse_error"
	KindEquationFormat      = "equation_format"
	KindUndefinedDerivative = "undefined_derivative"
	KindUnsolvable          = "unsolvable"
	KindEmptyInput          = "empty_input"
	KindUnknownMode         = "unknown_mode"
	KindBudgetExceeded      = "budget_exceeded"
	KindDivisionByZero      = "division_by_zero"
	KindInternal            = "internal"
)

// ErrorKind maps an engine error to a stable identifier.
func ErrorKind(err error) string {
	var (
		parseErr *normalizer.ParseError
		eqErr    *normalizer.EquationFormatError
		undefErr *derivation.UndefinedDerivativeError
		unsolved *derivation.UnsolvableError
		emptyErr *EmptyInputError
	)
	switch {
	case errors.As(err, &emptyErr):
		return KindEmptyInput
	case errors.Is(err, derivation.ErrUnknownMode):
		return KindUnknownMode
	case errors.As(err, &undefErr):
		return KindUndefinedDerivative
	case errors.As(err, &unsolved):
		return KindUnsolvable
	case errors.As(err, &eqErr):
		return KindEquationFormat
	case errors.As(err, &parseErr):
		return KindParse
	case errors.Is(err, symbolic.ErrBudgetExceeded):
		return KindBudgetExceeded
	case errors.Is(err, symbolic.ErrDivisionByZero):
		return KindDivisionByZero
	}
	return KindInternal
}
