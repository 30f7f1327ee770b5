package parser

import (
	"fmt"

	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
)

// ParseAttach parses an attach line. The name is returned unresolved;
// whether it is a marker or a polyline only the scene cache knows.
func (p *Parser) ParseAttach(data []string) (AttachCommand, error) {
	var cmd AttachCommand

	positional, options := splitArgs(data)
	if err := checkOptions(defs.CmdAttach, options); err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdAttach, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 1 {
		return cmd, fmt.Errorf("attach expects 1 argument, got %d", len(positional))
	}

	cmd.Name = positional[0]

	return cmd, nil
}

// ParseDetach parses a detach line, same shape as attach.
func (p *Parser) ParseDetach(data []string) (DetachCommand, error) {
	var cmd DetachCommand

	positional, options := splitArgs(data)
	if err := checkOptions(defs.CmdDetach, options); err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdDetach, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 1 {
		return cmd, fmt.Errorf("detach expects 1 argument, got %d", len(positional))
	}

	cmd.Name = positional[0]

	return cmd, nil
}
