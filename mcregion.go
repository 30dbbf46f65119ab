package rawchunk

import (
	"github.com/minemap/rawchunk/nbt"
)

// mcRegionIndex is the flat-layout cell order: Y innermost, then Z, then X.
// This differs from the Anvil order and must not be unified with it.
func mcRegionIndex(x, y, z int) int {
	return y + z*McRegionHeight + x*McRegionHeight*Depth
}

// mcRegionNibble extracts a 4-bit value from a flat packed array. Unlike the
// Anvil layout, the nibble is selected by y parity: even y in the low nibble.
func mcRegionNibble(packed []byte, x, y, z int) byte {
	doublet := packed[mcRegionIndex(x, y, z)/2]
	if y%2 == 1 {
		return (doublet >> 4) & 0xF
	}
	return doublet & 0xF
}

// decodeMcRegion reads the pre-Anvil monolithic layout. Flat worlds are 128
// cells tall, so exactly the lower eight sections are allocated whether or
// not the arrays are present.
func (c *Chunk) decodeMcRegion(level nbt.Compound) {
	for i := 0; i < McRegionHeight/SectionHeight; i++ {
		c.sections[i] = &Section{}
	}

	const flatCells = Width * McRegionHeight * Depth

	if blocks, ok := level.ByteArray("Blocks"); ok && len(blocks) >= flatCells {
		for x := 0; x < Width; x++ {
			for y := 0; y < McRegionHeight; y++ {
				for z := 0; z < Depth; z++ {
					c.SetBlockID(x, y, z, int(blocks[mcRegionIndex(x, y, z)]))
				}
			}
		}
	}

	if data, ok := level.ByteArray("Data"); ok && len(data) >= flatCells/2 {
		for x := 0; x < Width; x++ {
			for y := 0; y < McRegionHeight; y++ {
				for z := 0; z < Depth; z++ {
					c.SetBlockData(x, y, z, mcRegionNibble(data, x, y, z))
				}
			}
		}
	}

	if skyLight, ok := level.ByteArray("SkyLight"); ok && len(skyLight) >= flatCells/2 {
		for x := 0; x < Width; x++ {
			for y := 0; y < McRegionHeight; y++ {
				for z := 0; z < Depth; z++ {
					c.SetSkyLight(x, y, z, mcRegionNibble(skyLight, x, y, z))
				}
			}
		}
	}

	if blockLight, ok := level.ByteArray("BlockLight"); ok && len(blockLight) >= flatCells/2 {
		for x := 0; x < Width; x++ {
			for y := 0; y < McRegionHeight; y++ {
				for z := 0; z < Depth; z++ {
					c.SetBlockLight(x, y, z, mcRegionNibble(blockLight, x, y, z))
				}
			}
		}
	}
}
