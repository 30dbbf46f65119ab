package rawchunk

import (
	"github.com/minemap/rawchunk/nbt"
)

// anvilNibble extracts the 4-bit value for a cell from a 2048-byte packed
// array. Cells with even x sit in the low nibble, odd x in the high nibble.
func anvilNibble(packed []byte, x, y, z int) byte {
	doublet := packed[cellIndex(x, y, z)/2]
	if x%2 == 1 {
		return (doublet >> 4) & 0xF
	}
	return doublet & 0xF
}

// decodeAnvil reads the sectioned layout: one list entry per populated
// vertical slab, each field independently optional.
func (c *Chunk) decodeAnvil(level nbt.Compound, sections *nbt.List) {
	for _, entry := range sections.Items {
		compound, ok := entry.(nbt.Compound)
		if !ok {
			continue
		}

		sectionY := int(compound.ByteOr("Y", 0))
		if sectionY < 0 || sectionY >= MaxSections {
			// Corrupt section index; drop the entry, keep the chunk.
			continue
		}

		section := &Section{}
		c.sections[sectionY] = section

		if blocks, ok := compound.ByteArray("Blocks"); ok && len(blocks) >= sectionCells {
			for x := 0; x < Width; x++ {
				for y := 0; y < SectionHeight; y++ {
					for z := 0; z < Depth; z++ {
						section.BlockIDs[cellIndex(x, y, z)] = uint16(blocks[cellIndex(x, y, z)])
					}
				}
			}
		}

		// "Add" carries bits 8..11 of the block id for worlds with extended ids.
		if add, ok := compound.ByteArray("Add"); ok && len(add) >= sectionCells/2 {
			for x := 0; x < Width; x++ {
				for y := 0; y < SectionHeight; y++ {
					for z := 0; z < Depth; z++ {
						idx := cellIndex(x, y, z)
						section.BlockIDs[idx] |= uint16(anvilNibble(add, x, y, z)) << 8
					}
				}
			}
		}

		if data, ok := compound.ByteArray("Data"); ok && len(data) >= sectionCells/2 {
			for x := 0; x < Width; x++ {
				for y := 0; y < SectionHeight; y++ {
					for z := 0; z < Depth; z++ {
						section.BlockData[cellIndex(x, y, z)] = anvilNibble(data, x, y, z)
					}
				}
			}
		}

		if skyLight, ok := compound.ByteArray("SkyLight"); ok && len(skyLight) >= sectionCells/2 {
			for x := 0; x < Width; x++ {
				for y := 0; y < SectionHeight; y++ {
					for z := 0; z < Depth; z++ {
						section.SkyLight[cellIndex(x, y, z)] = anvilNibble(skyLight, x, y, z)
					}
				}
			}
		}

		if blockLight, ok := compound.ByteArray("BlockLight"); ok && len(blockLight) >= sectionCells/2 {
			for x := 0; x < Width; x++ {
				for y := 0; y < SectionHeight; y++ {
					for z := 0; z < Depth; z++ {
						section.BlockLight[cellIndex(x, y, z)] = anvilNibble(blockLight, x, y, z)
					}
				}
			}
		}
	}

	// Biomes live at the Level, not per section: one id per column.
	if biomes, ok := level.ByteArray("Biomes"); ok && len(biomes) >= Width*Depth {
		c.biomes = make([]byte, Width*Depth)
		copy(c.biomes, biomes)
	}
}
