package wordtag_test

import (
	"testing"

	"github.com/agentstation/wordblox/pkg/wordtag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineSeparateRoundTrip(t *testing.T) {
	pairs := []struct{ tag, word string }{
		{"t1", "w1"},
		{"animals", "cat"},
		{"snake_case", "under_score"},
		{"123", "456"},
		{"ÄÖÜ", "straße"},
		{"日本", "語"},
		{"a", "b"},
	}

	for _, p := range pairs {
		t.Run(p.tag+"/"+p.word, func(t *testing.T) {
			key, ok := wordtag.Combine(p.tag, p.word)
			require.True(t, ok)
			assert.True(t, wordtag.ValidKey(key))

			tag, word, ok := wordtag.Separate(key)
			require.True(t, ok)
			assert.Equal(t, p.tag, tag)
			assert.Equal(t, p.word, word)
		})
	}
}

func TestCombineRejectsEmptyParts(t *testing.T) {
	_, ok := wordtag.Combine("", "w")
	assert.False(t, ok)
	_, ok = wordtag.Combine("t", "")
	assert.False(t, ok)
}

func TestSeparateSplitsOnFirstSeparator(t *testing.T) {
	tag, word, ok := wordtag.Separate("a:b:c")
	require.True(t, ok)
	assert.Equal(t, "a", tag)
	assert.Equal(t, "b:c", word)

	_, _, ok = wordtag.Separate("nokey")
	assert.False(t, ok)
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"t1:w1", true},
		{"tag_1:word_2", true},
		{"", false},
		{":", false},
		{"t1:", false},
		{":w1", false},
		{"t1:w1:x", false},
		{"t 1:w1", false},
		{"t-1:w1", false},
		{"t1w1", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, wordtag.ValidKey(tt.key))
		})
	}
}
