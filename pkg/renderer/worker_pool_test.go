package renderer

import (
	"context"
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileSize      int
		tiles         int
	}{
		{name: "exact", width: 32, height: 32, tileSize: 16, tiles: 4},
		{name: "clipped", width: 33, height: 17, tileSize: 16, tiles: 6},
		{name: "single tile", width: 5, height: 3, tileSize: 16, tiles: 1},
		{name: "one pixel tiles", width: 3, height: 2, tileSize: 1, tiles: 6},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tiles := NewTileGrid(test.width, test.height, test.tileSize)
			require.Len(t, tiles, test.tiles)

			covered := make([]int, test.width*test.height)
			for _, tile := range tiles {
				require.LessOrEqual(t, tile.Dx(), test.tileSize)
				require.LessOrEqual(t, tile.Dy(), test.tileSize)
				for y := tile.Min.Y; y < tile.Max.Y; y++ {
					for x := tile.Min.X; x < tile.Max.X; x++ {
						covered[y*test.width+x]++
					}
				}
			}
			for i, n := range covered {
				require.Equal(t, 1, n, "pixel %d", i)
			}
		})
	}
}

func TestNewTileGridRowMajor(t *testing.T) {
	tiles := NewTileGrid(40, 20, 16)
	require.Equal(t, image.Rect(0, 0, 16, 16), tiles[0])
	require.Equal(t, image.Rect(16, 0, 32, 16), tiles[1])
	require.Equal(t, image.Rect(32, 0, 40, 16), tiles[2])
	require.Equal(t, image.Rect(0, 16, 16, 20), tiles[3])
}

func TestWorkerPoolRunsEveryTileOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 7} {
		tiles := NewTileGrid(100, 60, 8)
		pool := NewWorkerPool(tiles, workers)
		require.Equal(t, workers, pool.NumWorkers())

		var mu sync.Mutex
		seen := make(map[image.Rectangle]int)
		pool.Run(context.Background(), func(ctx context.Context, tile image.Rectangle) bool {
			mu.Lock()
			defer mu.Unlock()
			seen[tile]++
			return true
		})

		require.Len(t, seen, len(tiles))
		for _, tile := range tiles {
			require.Equal(t, 1, seen[tile])
		}
	}
}

func TestWorkerPoolStopsOnCancel(t *testing.T) {
	tiles := NewTileGrid(64, 64, 4)
	pool := NewWorkerPool(tiles, 1)

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	pool.Run(ctx, func(ctx context.Context, tile image.Rectangle) bool {
		count++
		if count == 3 {
			cancel()
		}
		return true
	})
	require.Equal(t, 3, count)
}

func TestDefaultWorkers(t *testing.T) {
	require.GreaterOrEqual(t, DefaultWorkers(), 1)
	require.Equal(t, DefaultWorkers(), NewWorkerPool(nil, 0).NumWorkers())
}
