package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
	"github.com/Cmooon-dev/gleaflet/internal/util"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// parseIntFromFloat parses a string that may be an integer ("19") or a
// float spelling of one ("19.0") into int64. Script authors copy zoom
// and weight values out of JavaScript snippets, where whole numbers
// often carry a decimal point.
func parseIntFromFloat(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int64", s)
	}
	return int64(f), nil
}

// cutOption splits a field of the form name=value. Everything before
// the first '=' must be a bare identifier; anything else, including a
// quoted value that happens to contain '=', is not an option.
func cutOption(field string) (key, value string, ok bool) {
	key, value, found := strings.Cut(field, "=")
	if !found || key == "" {
		return "", "", false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return "", "", false
		}
	}
	return key, value, true
}

// splitArgs separates a command's fields into positional arguments and
// key=value options, stripping the quoting the tokenizer kept.
func splitArgs(data []string) ([]string, map[string]string) {
	positional := []string{}
	options := map[string]string{}
	for _, f := range data {
		if k, v, ok := cutOption(f); ok {
			options[k] = util.FixEscapeQuotes(util.TrimQuotes(v))
			continue
		}
		positional = append(positional, util.FixEscapeQuotes(util.TrimQuotes(f)))
	}
	return positional, options
}

// checkOptions rejects option keys a command does not define, so a
// typoed key fails the line instead of silently dropping the setting.
func checkOptions(command string, options map[string]string, allowed ...string) error {
	for k := range options {
		if !util.Contains(allowed, k) {
			return fmt.Errorf("unknown option %q for %s", k, command)
		}
	}
	return nil
}

// checkArity enforces the positional argument floor from
// scriptdefs.MinArgs, so the vocabulary table and the parsers cannot
// drift apart.
func checkArity(command string, positional []string) error {
	if min := defs.MinArgs[command]; len(positional) < min {
		return fmt.Errorf("%s expects at least %d arguments, got %d", command, min, len(positional))
	}
	return nil
}

// Service is the parsing surface the command handlers depend on, so
// tests can substitute a stub without touching the real parser.
type Service interface {
	ParseMap(data []string) (MapCommand, error)
	ParseView(data []string) (ViewCommand, error)
	ParseTiles(data []string) (TilesCommand, error)
	ParseStyle(data []string) (StyleCommand, error)
	ParseIcon(data []string) (IconCommand, error)
	ParseMarker(data []string) (MarkerCommand, error)
	ParsePolyline(data []string) (LineCommand, error)
	ParseAttach(data []string) (AttachCommand, error)
	ParseDetach(data []string) (DetachCommand, error)
}

// Parser provides pure []string -> command struct conversion.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger

	// Static config set at creation time
	tileDefaults scene.LayerOptions
}

// NewParser creates a new parser with only a logger dependency. The
// layer options fill in whatever a tiles line leaves unset.
func NewParser(logger *slog.Logger, tileDefaults scene.LayerOptions) *Parser {
	p := &Parser{
		logger:       logger,
		tileDefaults: tileDefaults,
	}
	return p
}

var _ Service = (*Parser)(nil)
