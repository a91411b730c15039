package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapfx/mappane/tiles"
)

func TestValidateSourceBounds(t *testing.T) {
	require.NoError(t, ValidateSourceBounds(tiles.NewPlaceholderSource(0, 22)))
	require.Error(t, ValidateSourceBounds(tiles.NewPlaceholderSource(0, 23)))
	require.Error(t, ValidateSourceBounds(tiles.NewPlaceholderSource(-1, 19)))
}

func TestEffectiveZoomBounds(t *testing.T) {
	lo, hi := EffectiveZoomBounds(tiles.NewPlaceholderSource(3, 12))
	assert.Equal(t, 3, lo)
	assert.Equal(t, 12, hi)

	lo, hi = EffectiveZoomBounds(tiles.NewPlaceholderSource(0, 22))
	assert.Equal(t, 0, lo)
	assert.Equal(t, 22, hi)
}
