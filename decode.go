package rawchunk

import (
	"github.com/minemap/rawchunk/nbt"
)

// Decode builds a Chunk from a parsed NBT tree. The tree must already be
// decompressed and parsed; Decode never touches the underlying byte stream.
//
// A missing root compound or "Level" child yields an empty chunk, not an
// error: minimal or malformed trees decode to all-air. An error is returned
// only for the format failures described on FormatError, and in that case no
// chunk is returned.
func Decode(root nbt.Tag) (*Chunk, error) {
	chunk := &Chunk{}

	rootCompound, ok := root.(nbt.Compound)
	if !ok {
		return chunk, nil
	}
	level, ok := rootCompound.Compound("Level")
	if !ok {
		return chunk, nil
	}

	if x, ok := level.Int("xPos"); ok {
		chunk.X = int(x)
	}
	if z, ok := level.Int("zPos"); ok {
		chunk.Z = int(z)
	}

	// The presence of a "Sections" list is what distinguishes the two
	// historical layouts.
	if sections, ok := level.List("Sections"); ok {
		chunk.decodeAnvil(level, sections)
	} else {
		chunk.decodeMcRegion(level)
	}

	// Entity extraction needs the voxel data in place: sign records capture
	// the block id/data at their cell.
	if err := chunk.extractEntities(level); err != nil {
		return nil, err
	}
	return chunk, nil
}
