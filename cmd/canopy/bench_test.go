package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBenchmarksSmall(t *testing.T) {
	var out bytes.Buffer
	results := runBenchmarks(&out, benchConfig{sections: 40, headlines: 3, ops: 500, seed: 3})

	require.Len(t, results, 7)
	for _, r := range results {
		assert.NotEmpty(t, r.Name)
		assert.NotContains(t, r.Extra, "out of range", r.Name)
	}
	assert.Equal(t, "160 rows", results[0].Extra)
	assert.Equal(t, "40 rows", results[6].Extra)
	assert.Contains(t, out.String(), "Notifications delivered:")
}
