//go:build !reference

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActive_DefaultBuildHasNoBackend(t *testing.T) {
	Register(nil)
	_, err := Active()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBackend)
}
