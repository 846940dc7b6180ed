package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefID(t *testing.T) {
	for _, prefix := range []string{"GRV", "SUG", "VOL", "PHT"} {
		id := RefID(prefix)
		require.Len(t, id, 8)
		assert.Equal(t, prefix, id[:3])
		for _, c := range id[3:] {
			assert.True(t, c >= '0' && c <= '9', "suffix must be digits, got %q", id)
		}
	}
}
