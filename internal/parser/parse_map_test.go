package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMap(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		want    string
		wantErr bool
	}{
		{
			name:  "plain surface",
			input: []string{"main"},
			want:  "main",
		},
		{
			name:  "quoted surface with space",
			input: []string{`"main map"`},
			want:  "main map",
		},
		{
			name:    "error: no arguments",
			input:   []string{},
			wantErr: true,
		},
		{
			name:    "error: too many arguments",
			input:   []string{"main", "second"},
			wantErr: true,
		},
		{
			name:    "error: stray option",
			input:   []string{"main", "opacity=1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseMap(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Surface)
		})
	}
}

func TestParseView(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		check   func(t *testing.T, c ViewCommand)
		wantErr bool
	}{
		{
			name:  "tallinn",
			input: []string{"59.437", "24.7536", "13"},
			check: func(t *testing.T, c ViewCommand) {
				assert.InDelta(t, 59.437, c.Lat, 0.0001)
				assert.InDelta(t, 24.7536, c.Lon, 0.0001)
				assert.Equal(t, 13, c.Zoom)
			},
		},
		{
			name:  "zoom as float spelling",
			input: []string{"40.7128", "-74.0060", "13.0"},
			check: func(t *testing.T, c ViewCommand) {
				assert.Equal(t, 13, c.Zoom)
			},
		},
		{
			name:  "negative coordinates",
			input: []string{"-33.8688", "151.2093", "11"},
			check: func(t *testing.T, c ViewCommand) {
				assert.InDelta(t, -33.8688, c.Lat, 0.0001)
				assert.InDelta(t, 151.2093, c.Lon, 0.0001)
			},
		},
		{
			name:    "error: bad latitude",
			input:   []string{"north", "24.7536", "13"},
			wantErr: true,
		},
		{
			name:    "error: bad zoom",
			input:   []string{"59.437", "24.7536", "high"},
			wantErr: true,
		},
		{
			name:    "error: fractional zoom",
			input:   []string{"59.437", "24.7536", "13.5"},
			wantErr: true,
		},
		{
			name:    "error: missing zoom",
			input:   []string{"59.437", "24.7536"},
			wantErr: true,
		},
		{
			name:    "error: stray option",
			input:   []string{"59.437", "24.7536", "13", "maxZoom=19"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseView(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestParseTiles(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		check   func(t *testing.T, c TilesCommand)
		wantErr bool
	}{
		{
			name:  "url only gets defaults",
			input: []string{`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`},
			check: func(t *testing.T, c TilesCommand) {
				assert.Equal(t, "https://tile.openstreetmap.org/{z}/{x}/{y}.png", c.URL)
				assert.Equal(t, 19, c.Options.MaxZoom)
				assert.Equal(t, 0, c.Options.MinZoom)
				assert.InDelta(t, 1.0, c.Options.Opacity, 0.0001)
				assert.Equal(t, "© OpenStreetMap contributors", c.Options.Attribution)
			},
		},
		{
			name: "all options set",
			input: []string{
				`"https://tiles.example.com/{z}/{x}/{y}@2x.png"`,
				"maxZoom=18",
				"minZoom=2",
				"opacity=0.8",
				`attribution="Custom Maps"`,
			},
			check: func(t *testing.T, c TilesCommand) {
				assert.Equal(t, 18, c.Options.MaxZoom)
				assert.Equal(t, 2, c.Options.MinZoom)
				assert.InDelta(t, 0.8, c.Options.Opacity, 0.0001)
				assert.Equal(t, "Custom Maps", c.Options.Attribution)
			},
		},
		{
			name:  "quoted url keeps query string",
			input: []string{`"https://t.example/{z}/{x}/{y}.png?apikey=abc123"`},
			check: func(t *testing.T, c TilesCommand) {
				assert.Equal(t, "https://t.example/{z}/{x}/{y}.png?apikey=abc123", c.URL)
			},
		},
		{
			name: "attribution with escaped quotes",
			input: []string{
				`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`,
				`attribution="(c) ""OpenStreetMap"" contributors"`,
			},
			check: func(t *testing.T, c TilesCommand) {
				assert.Equal(t, `(c) "OpenStreetMap" contributors`, c.Options.Attribution)
			},
		},
		{
			name:  "maxZoom as float spelling",
			input: []string{`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`, "maxZoom=18.0"},
			check: func(t *testing.T, c TilesCommand) {
				assert.Equal(t, 18, c.Options.MaxZoom)
			},
		},
		{
			name:    "error: no url",
			input:   []string{"maxZoom=19"},
			wantErr: true,
		},
		{
			name:    "error: two urls",
			input:   []string{`"https://a.example/{z}.png"`, `"https://b.example/{z}.png"`},
			wantErr: true,
		},
		{
			name:    "error: bad maxZoom",
			input:   []string{`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`, "maxZoom=lots"},
			wantErr: true,
		},
		{
			name:    "error: bad opacity",
			input:   []string{`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`, "opacity=solid"},
			wantErr: true,
		},
		{
			name:    "error: unknown option",
			input:   []string{`"https://tile.openstreetmap.org/{z}/{x}/{y}.png"`, "zoom=19"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseTiles(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, result)
		})
	}
}

func TestParseStyle(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		want    string
		wantErr bool
	}{
		{
			name:  "style url",
			input: []string{`"https://demotiles.maplibre.org/style.json"`},
			want:  "https://demotiles.maplibre.org/style.json",
		},
		{
			name:    "error: no arguments",
			input:   []string{},
			wantErr: true,
		},
		{
			name:    "error: too many arguments",
			input:   []string{`"https://a.example/style.json"`, "extra"},
			wantErr: true,
		},
		{
			name:    "error: stray option",
			input:   []string{`"https://a.example/style.json"`, "opacity=1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseStyle(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.URL)
		})
	}
}
