package region

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/minemap/rawchunk"
	"github.com/minemap/rawchunk/nbt"
)

// World holds every chunk decoded from a world directory.
type World struct {
	chunks map[rawchunk.ChunkCoord]*rawchunk.Chunk
}

// OpenWorld decodes every chunk of every region file under root. Region files
// are expected in a "region" subdirectory; a directory of bare .mca files
// also works. Regions decode in parallel, one goroutine per file; each decode
// parses its own tag tree, so nothing mutable is shared between them.
func OpenWorld(root string) (*World, error) {
	dir := filepath.Join(root, "region")
	entries, err := os.ReadDir(dir)
	if err != nil {
		dir = root
		if entries, err = os.ReadDir(dir); err != nil {
			return nil, err
		}
	}

	var readers []*Reader
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".mca") {
			continue
		}
		file, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		reader, err := NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("could not open region %s: %w", entry.Name(), err)
		}
		readers = append(readers, reader)
	}

	type regionResult struct {
		chunks map[rawchunk.ChunkCoord]*rawchunk.Chunk
		err    error
	}

	var wg sync.WaitGroup
	results := make(chan regionResult, len(readers))
	for _, reader := range readers {
		wg.Add(1)
		go func(reader *Reader) {
			defer wg.Done()
			defer reader.Close()
			chunks, err := readRegion(reader)
			results <- regionResult{chunks: chunks, err: err}
		}(reader)
	}
	wg.Wait()
	close(results)

	allChunks := make(map[rawchunk.ChunkCoord]*rawchunk.Chunk)
	for result := range results {
		if result.err != nil {
			return nil, result.err
		}
		for coord, chunk := range result.chunks {
			allChunks[coord] = chunk
		}
	}
	return &World{chunks: allChunks}, nil
}

func readRegion(reader *Reader) (map[rawchunk.ChunkCoord]*rawchunk.Chunk, error) {
	byXZ := make(map[rawchunk.ChunkCoord]*rawchunk.Chunk)
	for x := 0; x < 32; x++ {
		for z := 0; z < 32; z++ {
			if !reader.ChunkExists(x, z) {
				continue
			}
			chunkReader, err := reader.ReadChunk(x, z)
			if err != nil {
				return nil, fmt.Errorf("could not read chunk %d,%d in %s: %w", x, z, reader.Name, err)
			}
			root, err := nbt.NewDecoder(chunkReader).Decode()
			if err != nil {
				return nil, fmt.Errorf("could not parse chunk %d,%d in %s: %w", x, z, reader.Name, err)
			}
			chunk, err := rawchunk.Decode(root)
			if err != nil {
				return nil, fmt.Errorf("could not decode chunk %d,%d in %s: %w", x, z, reader.Name, err)
			}
			byXZ[chunk.Coord()] = chunk
		}
	}
	return byXZ, nil
}

func (w *World) Chunk(coord rawchunk.ChunkCoord) (*rawchunk.Chunk, bool) {
	chunk, ok := w.chunks[coord]
	return chunk, ok
}

func (w *World) Len() int {
	return len(w.chunks)
}

// Coords returns the populated chunk coordinates in deterministic order.
func (w *World) Coords() []rawchunk.ChunkCoord {
	coords := make([]rawchunk.ChunkCoord, 0, len(w.chunks))
	for coord := range w.chunks {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Z != coords[j].Z {
			return coords[i].Z < coords[j].Z
		}
		return coords[i].X < coords[j].X
	})
	return coords
}
