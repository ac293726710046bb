package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCommand(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "state", expected: "state"},
		{input: " Volume-Set\n", expected: "volume_set"},
		{input: "NOW_PLAYING", expected: "now_playing"},
		{input: "play pause", expected: "playpause"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, NormalizeCommand(row.input))
	}
}
