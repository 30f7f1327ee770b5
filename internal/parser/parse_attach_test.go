package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttach(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		want    string
		wantErr bool
	}{
		{
			name:  "marker name",
			input: []string{"ny"},
			want:  "ny",
		},
		{
			name:  "quoted name",
			input: []string{`"winter route"`},
			want:  "winter route",
		},
		{
			name:    "error: no name",
			input:   []string{},
			wantErr: true,
		},
		{
			name:    "error: two names",
			input:   []string{"ny", "route"},
			wantErr: true,
		},
		{
			name:    "error: stray option",
			input:   []string{"ny", "icon=pin"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseAttach(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Name)
		})
	}
}

func TestParseDetach(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name    string
		input   []string
		want    string
		wantErr bool
	}{
		{
			name:  "marker name",
			input: []string{"ny"},
			want:  "ny",
		},
		{
			name:    "error: no name",
			input:   []string{},
			wantErr: true,
		},
		{
			name:    "error: two names",
			input:   []string{"ny", "route"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseDetach(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Name)
		})
	}
}
