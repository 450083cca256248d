package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse = errors.New("parse error")
)

func parseErrAt(cause error, line, col int) error {
	return fmt.Errorf("%w at line %d, col %d: %v", ErrParse, line+1, col+1, cause)
}
