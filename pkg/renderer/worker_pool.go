package renderer

import (
	"context"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultWorkers returns the number of logical CPUs
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil {
		logs.Warn(err)
		return runtime.NumCPU()
	}
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// NewTileGrid splits a width x height image into square tiles in row-major
// order. Tiles on the right and bottom edges are clipped.
func NewTileGrid(width, height, tileSize int) []image.Rectangle {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	tiles := make([]image.Rectangle, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			tiles = append(tiles, image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height)))
		}
	}
	return tiles
}

// WorkerPool hands tiles to workers through a shared atomic counter. Each
// worker claims the next unrendered tile until none are left or the context
// is cancelled.
type WorkerPool struct {
	tiles      []image.Rectangle
	numWorkers int
	next       atomic.Int64
}

// NewWorkerPool creates a pool over tiles. numWorkers <= 0 uses DefaultWorkers.
func NewWorkerPool(tiles []image.Rectangle, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers()
	}
	return &WorkerPool{
		tiles:      tiles,
		numWorkers: numWorkers,
	}
}

// NumWorkers returns the number of workers the pool starts
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run calls render for every tile from numWorkers goroutines and returns
// once they have all exited. render returns false to stop its worker.
func (wp *WorkerPool) Run(ctx context.Context, render func(ctx context.Context, tile image.Rectangle) bool) {
	var wg sync.WaitGroup
	for w := 0; w < wp.numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				idx := int(wp.next.Add(1) - 1)
				if idx >= len(wp.tiles) {
					return
				}
				if !render(ctx, wp.tiles[idx]) {
					return
				}
			}
		}()
	}
	wg.Wait()
}
