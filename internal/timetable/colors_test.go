package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveColorsUppercasesCustomColor(t *testing.T) {
	color, textColor := ResolveColors("0fffff", "000000", 3)
	assert.Equal(t, "0FFFFF", color)
	assert.Equal(t, "000000", textColor)
}

func TestResolveColorsAppliesCategoryOverrideOnGTFSDefault(t *testing.T) {
	color, textColor := ResolveColors("ffffff", "000000", 0)
	assert.Equal(t, "E010C2", color)
	assert.Equal(t, "FFFFFF", textColor)
}

func TestResolveColorsFallsBackWhenBlank(t *testing.T) {
	color, textColor := ResolveColors("", "", 99)
	assert.Equal(t, blankFallbackColor, color)
	assert.Equal(t, blankFallbackTextColor, textColor)
}
