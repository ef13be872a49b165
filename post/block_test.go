package post

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSnippet_Short verifies text within the limit is unchanged
func TestSnippet_Short(t *testing.T) {
	assert.Equal(t, "hello", Snippet("hello"))
	assert.Equal(t, strings.Repeat("a", 300), Snippet(strings.Repeat("a", 300)))
}

// TestSnippet_Long verifies long text is cut to 297 runes plus ellipsis
func TestSnippet_Long(t *testing.T) {
	s := Snippet(strings.Repeat("é", 301))

	assert.Equal(t, 300, len([]rune(s)))
	assert.True(t, strings.HasSuffix(s, "..."))
	assert.Equal(t, strings.Repeat("é", 297), strings.TrimSuffix(s, "..."))
}

// TestAppendUnique verifies empty, duplicate and over-cap values are dropped
func TestAppendUnique(t *testing.T) {
	var list []string
	for _, s := range []string{"a", "", "b", "a", "c", "d", "e", "f"} {
		list = AppendUnique(list, s, 5)
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, list)
}
