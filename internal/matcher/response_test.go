package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColorsKeepsCustomColors(t *testing.T) {
	color, text := resolveColors("0FFFFF", "000000", 0)
	assert.Equal(t, "0FFFFF", color)
	assert.Equal(t, "000000", text)
}

func TestResolveColorsDefaultUnknownType(t *testing.T) {
	color, text := resolveColors("FFFFFF", "000000", 69)
	assert.Equal(t, "FFFFFF", color)
	assert.Equal(t, "000000", text)
}

func TestResolveColorsOverridesTram(t *testing.T) {
	color, text := resolveColors("FFFFFF", "000000", 0)
	assert.Equal(t, "E010C2", color)
	assert.Equal(t, "FFFFFF", text)
}

func TestResolveColorsOverridesBus(t *testing.T) {
	color, text := resolveColors("FFFFFF", "000000", 3)
	assert.Equal(t, "9B9B9B", color)
	assert.Equal(t, "FFFFFF", text)
}

func TestResolveColorsBlankUsesDisplayFallbackNotOverride(t *testing.T) {
	// A route with no color data at all falls back to 777777/FFFFFF,
	// which is not the FFFFFF/000000 override trigger, so it passes
	// through unmodified regardless of route_type.
	color, text := resolveColors("", "", 3)
	assert.Equal(t, "777777", color)
	assert.Equal(t, "FFFFFF", text)
}
