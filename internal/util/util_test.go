package util

import (
	"errors"
	"reflect"
	"testing"
)

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no quotes", "hello", "hello"},
		{"double quoted", `"hello"`, "hello"},
		{"single quotes only", "'hello'", "'hello'"},
		{"quotes in middle", `he"llo`, `he"llo`},
		{"only quotes", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TrimQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("TrimQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFixEscapeQuotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escaped quotes", "hello", "hello"},
		{"single escaped quote", `he""llo`, `he"llo`},
		{"multiple escaped quotes", `a""b""c`, `a"b"c`},
		{"consecutive escaped", `a""""b`, `a""b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FixEscapeQuotes(tt.input)
			if result != tt.expected {
				t.Errorf("FixEscapeQuotes(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		str      string
		expected bool
	}{
		{"empty slice", []string{}, "a", false},
		{"found first", []string{"a", "b", "c"}, "a", true},
		{"found middle", []string{"a", "b", "c"}, "b", true},
		{"found last", []string{"a", "b", "c"}, "c", true},
		{"not found", []string{"a", "b", "c"}, "d", false},
		{"empty string in slice", []string{"a", "", "c"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Contains(tt.slice, tt.str)
			if result != tt.expected {
				t.Errorf("Contains(%v, %q) = %v, want %v", tt.slice, tt.str, result, tt.expected)
			}
		})
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty line", "", nil},
		{"single field", "marker", []string{"marker"}},
		{"simple fields", "marker hq 40.7 -74.0", []string{"marker", "hq", "40.7", "-74.0"}},
		{"multiple spaces", "attach  map1   marker", []string{"attach", "map1", "marker"}},
		{"tabs", "view\t51.5\t-0.12", []string{"view", "51.5", "-0.12"}},
		{"leading and trailing space", "  icon blue  ", []string{"icon", "blue"}},
		{
			"quoted span with spaces",
			`marker hq 40.7 -74.0 popup="HQ is here"`,
			[]string{"marker", "hq", "40.7", "-74.0", `popup="HQ is here"`},
		},
		{
			"quoted field standalone",
			`style "https://tiles.example.com/basic style.json"`,
			[]string{"style", `"https://tiles.example.com/basic style.json"`},
		},
		{
			"escaped quote inside quoted span",
			`marker x 1 2 popup="say ""hi"" now"`,
			[]string{"marker", "x", "1", "2", `popup="say ""hi"" now"`},
		},
		{"empty quoted field", `marker "" 1 2`, []string{"marker", `""`, "1", "2"}},
		{"unterminated quote keeps remainder", `tiles "http://a b`, []string{"tiles", `"http://a b`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SplitFields(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("SplitFields(%q) = %#v, want %#v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParsePixelPair(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantW   int
		wantH   int
		wantErr bool
	}{
		{"basic", "25x41", 25, 41, false},
		{"negative components", "-12x-41", -12, -41, false},
		{"zero", "0x0", 0, 0, false},
		{"spaces around components", " 12 x 41 ", 12, 41, false},
		{"missing separator", "2541", 0, 0, true},
		{"not numeric", "axb", 0, 0, true},
		{"half missing", "25x", 0, 0, true},
		{"empty", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := ParsePixelPair(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePixelPair(%q) expected error", tt.input)
				}
				if !errors.Is(err, ErrInvalidPixelPair) {
					t.Errorf("ParsePixelPair(%q) error = %v, want ErrInvalidPixelPair", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePixelPair(%q) unexpected error: %v", tt.input, err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("ParsePixelPair(%q) = %d, %d, want %d, %d", tt.input, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
