package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	text := "The new Federal Regulation was published today. Critics of federal regulation say it goes too far."

	spans := Extract(text, "federal regulation", 20, 10)
	require.Len(t, spans, 2)
	assert.Contains(t, spans[0], "Federal Regulation")
	assert.Contains(t, spans[1], "federal regulation")
	for _, s := range spans {
		assert.LessOrEqual(t, len([]rune(s)), 20+len("federal regulation"))
	}
}

func TestExtractNoMatch(t *testing.T) {
	assert.Empty(t, Extract("nothing to see here", "tariff", 100, 10))
	assert.Empty(t, Extract("", "tariff", 100, 10))
	assert.Empty(t, Extract("tariff", "   ", 100, 10))
}

func TestExtractCapsCount(t *testing.T) {
	text := strings.Repeat("chip shortage hits factories. ", 40)
	spans := Extract(text, "chip shortage", 10, 3)
	assert.Len(t, spans, 3)
	assert.Equal(t, 40, Count(text, "chip shortage"))
}

func TestExtractNonOverlapping(t *testing.T) {
	text := "ai ai ai ai"
	spans := Extract(text, "ai", 100, 10)
	// the first window swallows every later mention
	require.Len(t, spans, 1)
	assert.Equal(t, "ai ai ai ai", spans[0])
}

func TestExtractWhitespaceInsensitive(t *testing.T) {
	text := "A ruling on\nfederal   regulation arrived."
	assert.Equal(t, 1, Count(text, "federal regulation"))
	spans := Extract(text, "federal regulation", 100, 10)
	require.Len(t, spans, 1)
}

func TestExtractRuneBoundaries(t *testing.T) {
	text := "ééééé café ééééé"
	spans := Extract(text, "café", 4, 1)
	require.Len(t, spans, 1)
	assert.Equal(t, "é café é", spans[0])
}

func TestExtractRegexpMeta(t *testing.T) {
	assert.Equal(t, 1, Count("we ship c++ today", "c++"))
	assert.Equal(t, 0, Count("we ship c today", "c++"))
}

func TestCountWholeWordsOnly(t *testing.T) {
	assert.Equal(t, 0, Count("He said the rain would stop again.", "AI"))
	assert.Equal(t, 2, Count("AI rules. Regulating ai, said nobody.", "AI"))
	assert.Equal(t, 0, Count("ai2 and 2ai", "ai"))
	assert.Equal(t, 1, Count("naïve ai", "ai"))
	assert.Equal(t, 0, Count("the chip shortages eased", "chip shortage"))
	assert.Equal(t, 1, Count("(chip shortage)", "chip shortage"))
}

func TestCountRecoversOverlappingHit(t *testing.T) {
	// "xab ab" is rejected, the standalone "ab ab" behind it is not.
	assert.Equal(t, 1, Count("xab ab ab", "ab ab"))
}

func TestExtractSkipsEmbeddedHits(t *testing.T) {
	spans := Extract("Again and again. AI wins.", "ai", 6, 10)
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0], "AI")
}
