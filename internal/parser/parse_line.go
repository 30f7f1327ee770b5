package parser

import (
	"fmt"
	"strconv"

	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
	"github.com/Cmooon-dev/gleaflet/internal/geo"
)

// ParsePolyline parses a line command: a name followed by any number
// of lat,lon points, then stroke styling options. A line with no
// points is passed through; what an empty path renders as is the
// engine's business. Unset style fields stay nil so the polyline
// builder's stock styling applies.
func (p *Parser) ParsePolyline(data []string) (LineCommand, error) {
	var cmd LineCommand

	positional, options := splitArgs(data)
	err := checkOptions(defs.CmdLine, options,
		defs.OptColor, defs.OptWeight, defs.OptOpacity)
	if err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdLine, positional); err != nil {
		return cmd, err
	}

	cmd.Name = positional[0]

	for i, v := range positional[1:] {
		pt, err := geo.ParseCoordinate(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing point %d: %w", i+1, err)
		}
		cmd.Points = append(cmd.Points, pt)
	}

	if v, ok := options[defs.OptColor]; ok {
		cmd.Color = &v
	}

	if v, ok := options[defs.OptWeight]; ok {
		weight, err := parseIntFromFloat(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing weight: %w", err)
		}
		w := int(weight)
		cmd.Weight = &w
	}

	if v, ok := options[defs.OptOpacity]; ok {
		opacity, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cmd, fmt.Errorf("error parsing opacity: %w", err)
		}
		cmd.Opacity = &opacity
	}

	p.logger.Debug("Parsed polyline",
		"name", cmd.Name,
		"points", len(cmd.Points))

	return cmd, nil
}
