package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringHelpers(t *testing.T) {
	assert.Equal(t, "héll...", TruncateString("héllo", 4))
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "word", Normalize("  WORD "))
	assert.Equal(t, "b", FirstNonEmpty("", "  ", " b ", "c"))
	assert.Equal(t, "", FirstNonEmpty())
	assert.Equal(t, "N/A", OrPlaceholder("  ", "N/A"))
	assert.Equal(t, "x", OrPlaceholder(" x ", "N/A"))
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains(nil, "a"))
	assert.Equal(t, []string{"a", "b"}, ParseCommaSeparated(" a, ,b "))
	assert.Empty(t, ParseCommaSeparated(""))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel("DEBUG").String())
	assert.Equal(t, "warn", ParseLevel("warning").String())
	assert.Equal(t, "info", ParseLevel("verbose").String())
}
