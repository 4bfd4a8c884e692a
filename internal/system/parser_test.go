package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSizeMB(t *testing.T) {
	testCases := []struct {
		in   string
		want int
	}{
		{"64", 64},
		{" 128 ", 128},
		{"512M", 512},
		{"512m", 512},
		{"2G", 2048},
		{"1.5g", 1536},
		{"1024k", 1},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSizeMB(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseSizeMBRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "12Q", "100k"} {
		_, err := ParseSizeMB(in)
		assert.Error(t, err, in)
	}
}

func TestFormatSizeMB(t *testing.T) {
	assert.Equal(t, "64MiB", FormatSizeMB(64))
	assert.Equal(t, "2GiB", FormatSizeMB(2048))
}
