package parser

import (
	"fmt"
	"strconv"

	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
)

// ParseMap parses a map line: the surface id the viewer renders into.
func (p *Parser) ParseMap(data []string) (MapCommand, error) {
	var cmd MapCommand

	positional, options := splitArgs(data)
	if err := checkOptions(defs.CmdMap, options); err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdMap, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 1 {
		return cmd, fmt.Errorf("map expects 1 argument, got %d", len(positional))
	}

	cmd.Surface = positional[0]

	return cmd, nil
}

// ParseView parses a view line: latitude, longitude and zoom as three
// separate fields.
func (p *Parser) ParseView(data []string) (ViewCommand, error) {
	var cmd ViewCommand

	positional, options := splitArgs(data)
	if err := checkOptions(defs.CmdView, options); err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdView, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 3 {
		return cmd, fmt.Errorf("view expects 3 arguments, got %d", len(positional))
	}

	lat, err := strconv.ParseFloat(positional[0], 64)
	if err != nil {
		return cmd, fmt.Errorf("error parsing latitude: %w", err)
	}
	cmd.Lat = lat

	lon, err := strconv.ParseFloat(positional[1], 64)
	if err != nil {
		return cmd, fmt.Errorf("error parsing longitude: %w", err)
	}
	cmd.Lon = lon

	zoom, err := parseIntFromFloat(positional[2])
	if err != nil {
		return cmd, fmt.Errorf("error parsing zoom: %w", err)
	}
	cmd.Zoom = int(zoom)

	return cmd, nil
}

// ParseTiles parses a tiles line: a url template plus optional
// maxZoom, minZoom, opacity and attribution settings. Unset options
// fall back to the parser's configured layer defaults.
func (p *Parser) ParseTiles(data []string) (TilesCommand, error) {
	var cmd TilesCommand

	positional, options := splitArgs(data)
	err := checkOptions(defs.CmdTiles, options,
		defs.OptMaxZoom, defs.OptMinZoom,
		defs.OptOpacity, defs.OptAttribution)
	if err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdTiles, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 1 {
		return cmd, fmt.Errorf("tiles expects 1 argument, got %d", len(positional))
	}

	cmd.URL = positional[0]
	cmd.Options = p.tileDefaults

	if v, ok := options[defs.OptMaxZoom]; ok {
		maxZoom, err := parseIntFromFloat(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing maxZoom: %w", err)
		}
		cmd.Options.MaxZoom = int(maxZoom)
	}

	if v, ok := options[defs.OptMinZoom]; ok {
		minZoom, err := parseIntFromFloat(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing minZoom: %w", err)
		}
		cmd.Options.MinZoom = int(minZoom)
	}

	if v, ok := options[defs.OptOpacity]; ok {
		opacity, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cmd, fmt.Errorf("error parsing opacity: %w", err)
		}
		cmd.Options.Opacity = opacity
	}

	if v, ok := options[defs.OptAttribution]; ok {
		cmd.Options.Attribution = v
	}

	return cmd, nil
}

// ParseStyle parses a style line: the url of a MapLibre GL style
// document. The document itself is never fetched here.
func (p *Parser) ParseStyle(data []string) (StyleCommand, error) {
	var cmd StyleCommand

	positional, options := splitArgs(data)
	if err := checkOptions(defs.CmdStyle, options); err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdStyle, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 1 {
		return cmd, fmt.Errorf("style expects 1 argument, got %d", len(positional))
	}

	cmd.URL = positional[0]

	return cmd, nil
}
