package parser

import (
	"fmt"

	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
	"github.com/Cmooon-dev/gleaflet/internal/geo"
	"github.com/Cmooon-dev/gleaflet/internal/util"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// ParseIcon parses an icon line into named, fully built marker
// artwork. Pixel pair options use the WxH form; anchors may be
// negative. Geometry a line leaves unset resolves to the stock Leaflet
// marker dimensions inside the icon builder.
func (p *Parser) ParseIcon(data []string) (IconCommand, error) {
	var cmd IconCommand

	positional, options := splitArgs(data)
	err := checkOptions(defs.CmdIcon, options,
		defs.OptSize, defs.OptAnchor, defs.OptPopupAnchor,
		defs.OptShadow, defs.OptShadowSize, defs.OptShadowAnchor)
	if err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdIcon, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 2 {
		return cmd, fmt.Errorf("icon expects 2 arguments, got %d", len(positional))
	}

	cmd.Name = positional[0]
	builder := scene.NewIcon(positional[1])

	if v, ok := options[defs.OptSize]; ok {
		w, h, err := util.ParsePixelPair(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing size: %w", err)
		}
		builder = builder.WithIconSize(scene.Point{X: w, Y: h})
	}

	if v, ok := options[defs.OptAnchor]; ok {
		w, h, err := util.ParsePixelPair(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing anchor: %w", err)
		}
		builder = builder.WithIconAnchor(scene.Point{X: w, Y: h})
	}

	if v, ok := options[defs.OptPopupAnchor]; ok {
		w, h, err := util.ParsePixelPair(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing popupAnchor: %w", err)
		}
		builder = builder.WithPopupAnchor(scene.Point{X: w, Y: h})
	}

	if v, ok := options[defs.OptShadow]; ok {
		builder = builder.WithShadow(v)
	}

	if v, ok := options[defs.OptShadowSize]; ok {
		w, h, err := util.ParsePixelPair(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing shadowSize: %w", err)
		}
		builder = builder.WithShadowSize(scene.Point{X: w, Y: h})
	}

	if v, ok := options[defs.OptShadowAnchor]; ok {
		w, h, err := util.ParsePixelPair(v)
		if err != nil {
			return cmd, fmt.Errorf("error parsing shadowAnchor: %w", err)
		}
		builder = builder.WithShadowAnchor(scene.Point{X: w, Y: h})
	}

	cmd.Icon = builder.Build()

	p.logger.Debug("Parsed icon",
		"name", cmd.Name,
		"iconUrl", cmd.Icon.IconURL())

	return cmd, nil
}

// ParseMarker parses a marker line. The icon option names cached
// artwork and is returned unresolved; the handler resolves it against
// the scene cache the same way attach resolves marker names.
func (p *Parser) ParseMarker(data []string) (MarkerCommand, error) {
	var cmd MarkerCommand

	positional, options := splitArgs(data)
	err := checkOptions(defs.CmdMarker, options, defs.OptIcon, defs.OptPopup)
	if err != nil {
		return cmd, err
	}
	if err := checkArity(defs.CmdMarker, positional); err != nil {
		return cmd, err
	}
	if len(positional) > 2 {
		return cmd, fmt.Errorf("marker expects 2 arguments, got %d", len(positional))
	}

	cmd.Name = positional[0]

	pos, err := geo.ParseCoordinate(positional[1])
	if err != nil {
		return cmd, fmt.Errorf("error parsing position: %w", err)
	}
	cmd.Position = pos

	cmd.IconName = options[defs.OptIcon]

	// popup="" still binds a popup, so keep presence, not just text
	if v, ok := options[defs.OptPopup]; ok {
		cmd.Popup = &v
	}

	return cmd, nil
}
