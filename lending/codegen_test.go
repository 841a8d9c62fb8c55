package lending

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"gap in sequence", "AMP", []string{"AMP01", "AMP02", "AMP05"}, "AMP06"},
		{"no existing codes for prefix", "DRM", []string{"AMP01", "MIC03"}, "DRM01"},
		{"empty directory", "CAB", nil, "CAB01"},
		{"case-insensitive match", "AMP", []string{"amp03", "Amp07"}, "AMP08"},
		{"rolls past two digits", "AMP", []string{"AMP09"}, "AMP10"},
		{"three digit suffix", "AMP", []string{"AMP99", "AMP100"}, "AMP101"},
		{"ignores non-numeric suffixes", "AMP", []string{"AMPX1", "AMP-2", "AMP03"}, "AMP04"},
		{"prefix must anchor", "AMP", []string{"PREAMP09"}, "AMP01"},
		{"lowercase prefix upper-cased", "drm", []string{"DRM04"}, "DRM05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextCode(tt.prefix, tt.existing))
		})
	}
}
