package scorecard

import (
	"bytes"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/build-flow-labs/esgrate/schema"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRender(t *testing.T) {
	a := &schema.Assessment{E: 23, S: 20, G: 20, Total: 63, Level: "B", RubricVersion: "2.0.0"}

	out, err := Render(a, Options{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, pngSignature))

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 360, cfg.Height)
}

func TestRenderBadgeColor(t *testing.T) {
	out, err := Render(&schema.Assessment{Total: 90, Level: "A", E: 35, S: 35, G: 20}, Options{Width: 400, Height: 200})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// the badge centre sits right of the bars, vertically centred
	margin, radius := 400*0.06, 200*0.2
	x, y := int(400-margin-radius), 100
	r, g, b, _ := img.At(x-int(radius/2), y+int(radius/2)).RGBA()
	want := levelColors["A"]
	assert.Equal(t, uint32(want.R)<<8|uint32(want.R), r)
	assert.Equal(t, uint32(want.G)<<8|uint32(want.G), g)
	assert.Equal(t, uint32(want.B)<<8|uint32(want.B), b)
	assert.Equal(t, image.Rect(0, 0, 400, 200), img.Bounds())
}

func TestRenderErrors(t *testing.T) {
	_, err := Render(nil, Options{})
	assert.Error(t, err)

	_, err = Render(&schema.Assessment{Level: "C"}, Options{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})
	assert.ErrorContains(t, err, "loading font")
}
