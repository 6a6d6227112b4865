package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPNG(t *testing.T) {
	r, err := NewRenderer("H", 256)
	require.NoError(t, err)

	png, err := r.Render("3f2a9c1e-ticket-code")
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestNewRendererLevels(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H", "l", "h"} {
		_, err := NewRenderer(level, 128)
		assert.NoError(t, err, level)
	}

	_, err := NewRenderer("X", 128)
	assert.Error(t, err)
}

func TestNewRendererDefaultsSize(t *testing.T) {
	r, err := NewRenderer("M", 0)
	require.NoError(t, err)
	assert.Equal(t, 256, r.size)
}
