package infrastructure

import (
	"testing"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExtensionFromMIME(t *testing.T) {
	cases := map[string]string{
		"image/jpeg": "jpg",
		"image/jpg":  "jpg",
		"image/png":  "png",
		"image/webp": "webp",
	}
	for mime, want := range cases {
		ext, err := GetExtensionFromMIME(mime)
		require.NoError(t, err, mime)
		assert.Equal(t, want, ext, mime)
	}

	_, err := GetExtensionFromMIME("application/pdf")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}

func TestVariantFormatFor(t *testing.T) {
	png := VariantFormatFor("png")
	assert.Equal(t, imaging.PNG, png.Format)
	assert.Equal(t, "image/png", png.ContentType)

	for _, ext := range []string{"jpg", "webp"} {
		v := VariantFormatFor(ext)
		assert.Equal(t, imaging.JPEG, v.Format, ext)
		assert.Equal(t, "jpg", v.Ext, ext)
	}
}
