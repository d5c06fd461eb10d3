package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"1.2K reactions", 1200},
		{"3 comments", 3},
		{"", 0},
		{"2M", 2000000},
		{"25 comments", 25},
		{"1,234 likes", 1234},
		{"4.5k", 4500},
		{"no numbers here", 0},
		{"0 reactions", 0},
		{"12", 12},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCount(tt.text), "text: %q", tt.text)
	}
}

func TestCleanWhitespace(t *testing.T) {
	in := "line one\n\n\n\nline two   with    spaces\n\nline three"
	want := "line one\n\nline two with spaces\n\nline three"
	assert.Equal(t, want, CleanWhitespace(in))
}

func TestHashtags(t *testing.T) {
	tags := Hashtags("Hello #AI #Tech world #AI again")
	assert.Equal(t, []string{"#AI", "#Tech"}, tags)

	assert.Empty(t, Hashtags("no tags here"))
}
