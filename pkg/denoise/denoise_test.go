package denoise

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBilateralPreservesConstantImage(t *testing.T) {
	w, h := 9, 7
	in := make([]float32, 3*w*h)
	for i := 0; i < len(in); i += 3 {
		in[i], in[i+1], in[i+2] = 0.25, 0.5, 0.75
	}

	out, err := DefaultBilateral().Denoise(in, w, h)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := 0; i < len(out); i += 3 {
		require.InDelta(t, 0.25, out[i], 1e-6)
		require.InDelta(t, 0.5, out[i+1], 1e-6)
		require.InDelta(t, 0.75, out[i+2], 1e-6)
	}
}

func TestBilateralKeepsEdges(t *testing.T) {
	// left half black, right half white
	w, h := 10, 4
	in := make([]float32, 3*w*h)
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			i := 3 * (y*w + x)
			in[i], in[i+1], in[i+2] = 1, 1, 1
		}
	}

	out, err := Bilateral{SigmaSpatial: 2, SigmaRange: 0.05}.Denoise(in, w, h)
	require.NoError(t, err)
	require.InDelta(t, 0, out[3*(w/2-1)], 1e-3)
	require.InDelta(t, 1, out[3*(w/2)], 1e-3)
}

func TestBilateralSmoothsNoise(t *testing.T) {
	w, h := 5, 5
	in := make([]float32, 3*w*h)
	for i := range in {
		in[i] = 0.5
	}
	center := 3 * (2*w + 2)
	in[center] = 0.6

	out, err := Bilateral{SigmaSpatial: 1, SigmaRange: 1}.Denoise(in, w, h)
	require.NoError(t, err)
	require.Less(t, out[center], float32(0.6))
	require.Greater(t, out[center], float32(0.5))
}

func TestBilateralErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter Bilateral
		in     []float32
		w, h   int
	}{
		{
			name:   "short buffer",
			filter: DefaultBilateral(),
			in:     make([]float32, 5),
			w:      2,
			h:      2,
		},
		{
			name:   "zero size",
			filter: DefaultBilateral(),
			w:      0,
			h:      3,
		},
		{
			name:   "zero sigma",
			filter: Bilateral{SigmaSpatial: 1},
			in:     make([]float32, 12),
			w:      2,
			h:      2,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.filter.Denoise(test.in, test.w, test.h)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidBuffer, errors.Type(err))
		})
	}
}
