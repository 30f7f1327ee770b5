package parser

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

func newTestParser() *Parser {
	p := NewParser(slog.Default(), scene.LayerOptions{
		MaxZoom:     19,
		MinZoom:     0,
		Opacity:     1,
		Attribution: "© OpenStreetMap contributors",
	})
	return p
}

func TestNewParser(t *testing.T) {
	p := newTestParser()
	require.NotNil(t, p)
}

func TestParseIntFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"integer", "19", 19, false},
		{"zero", "0", 0, false},
		{"negative integer", "-1", -1, false},
		{"float with decimals", "19.00", 19, false},
		{"float with trailing zero", "13.0", 13, false},
		{"negative float", "-2.00", -2, false},
		{"fractional rejects", "13.5", 0, true},
		{"empty string", "", 0, true},
		{"non-numeric", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIntFromFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCutOption(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue string
		wantOK    bool
	}{
		{"plain option", "maxZoom=19", "maxZoom", "19", true},
		{"quoted value", `popup="hello"`, "popup", `"hello"`, true},
		{"hash value", "color=#ff0000", "color", "#ff0000", true},
		{"empty value", "attribution=", "attribution", "", true},
		{"value with equals", "a=b=c", "a", "b=c", true},
		{"coordinate is positional", "40.7128,-74.0060", "", "", false},
		{"url query is positional", "https://t.example/{z}?key=abc", "", "", false},
		{"quoted field is positional", `"maxZoom=19"`, "", "", false},
		{"empty key", "=value", "", "", false},
		{"digit-led key", "1x=2", "", "", false},
		{"no equals", "main", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := cutOption(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, key)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name           string
		input          []string
		wantPositional []string
		wantOptions    map[string]string
	}{
		{
			name:           "positional only",
			input:          []string{"ny", "40.7128,-74.0060"},
			wantPositional: []string{"ny", "40.7128,-74.0060"},
			wantOptions:    map[string]string{},
		},
		{
			name:           "options unquoted",
			input:          []string{`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`, "maxZoom=19", `attribution="Custom Maps"`},
			wantPositional: []string{"https://tile.openstreetmap.org/{z}/{x}/{y}.png"},
			wantOptions:    map[string]string{"maxZoom": "19", "attribution": "Custom Maps"},
		},
		{
			name:           "escaped quotes in option value",
			input:          []string{"ny", "40.7,-74.0", `popup="say ""hi"" now"`},
			wantPositional: []string{"ny", "40.7,-74.0"},
			wantOptions:    map[string]string{"popup": `say "hi" now`},
		},
		{
			name:           "empty quoted option value",
			input:          []string{"ny", "40.7,-74.0", `popup=""`},
			wantPositional: []string{"ny", "40.7,-74.0"},
			wantOptions:    map[string]string{"popup": ""},
		},
		{
			name:           "quoted url with query stays positional",
			input:          []string{`"https://t.example/{z}/{x}/{y}.png?apikey=abc123"`},
			wantPositional: []string{"https://t.example/{z}/{x}/{y}.png?apikey=abc123"},
			wantOptions:    map[string]string{},
		},
		{
			name:           "empty input",
			input:          []string{},
			wantPositional: []string{},
			wantOptions:    map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			positional, options := splitArgs(tt.input)
			assert.Equal(t, tt.wantPositional, positional)
			assert.Equal(t, tt.wantOptions, options)
		})
	}
}

func TestArityFloorFollowsTable(t *testing.T) {
	p := newTestParser()

	parse := map[string]func([]string) error{
		defs.CmdMap:    func(d []string) error { _, err := p.ParseMap(d); return err },
		defs.CmdView:   func(d []string) error { _, err := p.ParseView(d); return err },
		defs.CmdTiles:  func(d []string) error { _, err := p.ParseTiles(d); return err },
		defs.CmdStyle:  func(d []string) error { _, err := p.ParseStyle(d); return err },
		defs.CmdIcon:   func(d []string) error { _, err := p.ParseIcon(d); return err },
		defs.CmdMarker: func(d []string) error { _, err := p.ParseMarker(d); return err },
		defs.CmdLine:   func(d []string) error { _, err := p.ParsePolyline(d); return err },
		defs.CmdAttach: func(d []string) error { _, err := p.ParseAttach(d); return err },
		defs.CmdDetach: func(d []string) error { _, err := p.ParseDetach(d); return err },
	}

	// One positional short of the floor must fail for every command
	// in the vocabulary, straight from the shared table.
	for cmd, min := range defs.MinArgs {
		t.Run(cmd, func(t *testing.T) {
			fn, ok := parse[cmd]
			require.True(t, ok, "no parser wired for %s", cmd)

			short := make([]string, min-1)
			for i := range short {
				short[i] = "1"
			}

			err := fn(short)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "at least")
		})
	}
}

func TestCheckOptions(t *testing.T) {
	err := checkOptions("marker", map[string]string{"icon": "pin", "popup": "hi"}, "icon", "popup")
	assert.NoError(t, err)

	err = checkOptions("marker", map[string]string{"popop": "hi"}, "icon", "popup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "popop")
	assert.Contains(t, err.Error(), "marker")

	err = checkOptions("attach", map[string]string{"icon": "pin"})
	assert.Error(t, err)
}
