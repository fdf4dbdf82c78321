package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{name: "already E.164", input: "+14155550123", want: "+14155550123"},
		{name: "with punctuation", input: "+1 (415) 555-0123", want: "+14155550123"},
		{name: "national number uses region", input: "(415) 555-0123", region: "US", want: "+14155550123"},
		{name: "foreign number ignores region", input: "+44 20 7946 0958", region: "US", want: "+442079460958"},
		{name: "surrounding spaces", input: "  +14155550123  ", want: "+14155550123"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "   ", want: ""},
		{name: "not a number", input: "call me", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input, tt.region)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePhone(got, tt.region), "must be idempotent")
		})
	}
}

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Sunny Loft  ", "Sunny Loft"},
		{"Sunny    Loft", "Sunny Loft"},
		{"Sunny\t\nLoft", "Sunny Loft"},
		{"", ""},
		{"   \t\n  ", ""},
		{" Café & Co™ ", "Café & Co™"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimAndNormalize(tt.input))
			assert.Equal(t, tt.want, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Need a projector\nand coffee", NormalizeText("  Need a projector\nand coffee\x00\x07  "))
	assert.Equal(t, "tab\tkept", NormalizeText("tab\tkept"))
	assert.Equal(t, "", NormalizeText(" \x1b "))
}
