package parser

import (
	"fmt"

	"github.com/ribflow/rib/internal/token"
)

// ParseError is raised at the first unrecoverable alternative; the parser
// backtracks across attempt-able alternatives (constructor vs tuple vs
// literal patterns in particular) before ever producing one.
type ParseError struct {
	Message  string
	Position token.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: p.cur.Pos}
}
