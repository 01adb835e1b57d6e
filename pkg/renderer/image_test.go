package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-photon-raytracer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestRenderImage(t *testing.T) {
	img := NewRenderImage(2, 2, false)
	require.Equal(t, 0, img.NumRendered())
	for _, z := range img.ZBuffer() {
		require.True(t, math.IsInf(z, 1))
	}

	img.setPixel(0, core.Gray(0.5), 1, 4)
	img.setPixel(1, core.NewVec3(2, 0, 1), 3, 8)
	img.setPixel(2, core.Vec3{}, math.Inf(1), 2)
	require.Equal(t, 3, img.NumRendered())
	require.False(t, img.IsComplete())

	require.Equal(t, core.Color24{R: 128, G: 128, B: 128}, img.Pixels()[0])
	require.Equal(t, core.Color24{R: 255, G: 0, B: 255}, img.Pixels()[1])
	requireVecInDelta(t, core.NewVec3(2, 0, 1), img.Color(1, 0), 1e-6)
	require.Equal(t, []int{4, 8, 2, 0}, img.SampleCount())

	rgba := img.ToRGBA()
	require.Equal(t, uint8(255), rgba.RGBAAt(1, 0).R)
	require.Equal(t, uint8(255), rgba.RGBAAt(1, 1).A)

	img.setPixel(3, core.Gray(1), 2, 6)
	require.True(t, img.IsComplete())
}

func TestRenderImageBufferImages(t *testing.T) {
	img := NewRenderImage(2, 2, false)
	img.setPixel(0, core.Vec3{}, 1, 2)
	img.setPixel(1, core.Vec3{}, 3, 10)
	img.setPixel(2, core.Vec3{}, 2, 6)
	img.setPixel(3, core.Vec3{}, math.Inf(1), 2)

	z := img.ZBufferImage()
	require.Equal(t, []uint8{255, 0, 128, 0}, z.Pix)

	samples := img.SampleCountImage()
	require.Equal(t, []uint8{0, 255, 128, 0}, samples.Pix)
}

func TestRenderImageSRGB(t *testing.T) {
	img := NewRenderImage(1, 1, true)
	img.setPixel(0, core.Gray(0.5), 1, 1)
	require.Greater(t, img.Pixels()[0].R, uint8(128))
	require.InDelta(t, 0.5, img.Color(0, 0).X, 1e-6)
}
