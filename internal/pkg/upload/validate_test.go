package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// minimal valid PNG header
var pngHead = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestValidateImage(t *testing.T) {
	t.Run("accepts png", func(t *testing.T) {
		mime, err := ValidateImage("banner.png", pngHead, 1024)
		assert.NoError(t, err)
		assert.Equal(t, "image/png", mime)
	})

	t.Run("rejects oversize", func(t *testing.T) {
		_, err := ValidateImage("banner.png", pngHead, MaxImageBytes+1)
		assert.Error(t, err)
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		_, err := ValidateImage("banner.svg", pngHead, 1024)
		assert.Error(t, err)
	})

	t.Run("rejects html masquerading as image", func(t *testing.T) {
		_, err := ValidateImage("banner.png", []byte("<html><body>hi</body></html>"), 1024)
		assert.Error(t, err)
	})
}
