package rawchunk

import (
	"testing"

	"github.com/minemap/rawchunk/nbt"
)

// Test fixture helpers shared by the decoder tests.

func rootWith(level nbt.Compound) nbt.Compound {
	return nbt.Compound{"Level": level}
}

func anvilLevel(x, z int, sections ...nbt.Tag) nbt.Compound {
	return nbt.Compound{
		"xPos":     nbt.Int(int32(x)),
		"zPos":     nbt.Int(int32(z)),
		"Sections": &nbt.List{Element: nbt.TagCompound, Items: sections},
	}
}

func mustDecode(t *testing.T, root nbt.Tag) *Chunk {
	t.Helper()
	chunk, err := Decode(root)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return chunk
}

func TestDecodeEmptyInputs(t *testing.T) {
	for name, root := range map[string]nbt.Tag{
		"nil root":     nil,
		"non-compound": nbt.Int(1),
		"no level":     nbt.Compound{},
		"empty level":  rootWith(nbt.Compound{}),
		"wrong level":  nbt.Compound{"Level": nbt.Int(0)},
	} {
		chunk := mustDecode(t, root)
		if chunk.X != 0 || chunk.Z != 0 {
			t.Fatalf("%s: coords = %d,%d, want 0,0", name, chunk.X, chunk.Z)
		}
		if got := chunk.PopulatedSections(); got != 0 && name != "empty level" {
			t.Fatalf("%s: %d sections populated", name, got)
		}
	}

	// A Level with no Sections list decodes as the flat format, which always
	// allocates the lower eight sections.
	chunk := mustDecode(t, rootWith(nbt.Compound{}))
	if got := chunk.PopulatedSections(); got != 8 {
		t.Fatalf("flat fallback: %d sections, want 8", got)
	}
}

func TestDecodeChunkCoords(t *testing.T) {
	chunk := mustDecode(t, rootWith(anvilLevel(-12, 34)))
	if chunk.X != -12 || chunk.Z != 34 {
		t.Fatalf("coords = %d,%d, want -12,34", chunk.X, chunk.Z)
	}
	if chunk.Coord() != (ChunkCoord{X: -12, Z: 34}) {
		t.Fatalf("Coord() = %v", chunk.Coord())
	}
}

func TestAnvilBlockIndexOrder(t *testing.T) {
	blocks := make([]byte, sectionCells)
	// On-disk index is x + z*16 + y*256.
	blocks[1+3*16+2*256] = 42

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0, nbt.Compound{
		"Y":      nbt.Byte(0),
		"Blocks": nbt.ByteArray(blocks),
	})))

	if got := chunk.BlockID(1, 2, 3); got != 42 {
		t.Fatalf("BlockID(1,2,3) = %d, want 42", got)
	}
	// The same offsets along other axes must stay distinct.
	if got := chunk.BlockID(2, 3, 1); got != 0 {
		t.Fatalf("BlockID(2,3,1) = %d, want 0", got)
	}
	if got := chunk.BlockID(3, 1, 2); got != 0 {
		t.Fatalf("BlockID(3,1,2) = %d, want 0", got)
	}
}

func TestAnvilSectionYPlacement(t *testing.T) {
	blocks := make([]byte, sectionCells)
	blocks[0] = 7

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0, nbt.Compound{
		"Y":      nbt.Byte(5),
		"Blocks": nbt.ByteArray(blocks),
	})))

	if got := chunk.PopulatedSections(); got != 1 {
		t.Fatalf("%d sections populated, want 1", got)
	}
	if got := chunk.BlockID(0, 5*16, 0); got != 7 {
		t.Fatalf("BlockID at section 5 base = %d, want 7", got)
	}
	if got := chunk.BlockID(0, 0, 0); got != AirID {
		t.Fatalf("section 0 should be air, got %d", got)
	}
}

func TestAnvilAddExtendsBlockID(t *testing.T) {
	blocks := make([]byte, sectionCells)
	blocks[0] = 255 // cell (0,0,0), even x
	blocks[1] = 255 // cell (1,0,0), odd x

	add := make([]byte, sectionCells/2)
	add[0] = 0x21 // low nibble 1 for x=0, high nibble 2 for x=1

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0, nbt.Compound{
		"Y":      nbt.Byte(0),
		"Blocks": nbt.ByteArray(blocks),
		"Add":    nbt.ByteArray(add),
	})))

	if got := chunk.BlockID(0, 0, 0); got != 255|1<<8 {
		t.Fatalf("BlockID(0,0,0) = %d, want %d", got, 255|1<<8)
	}
	if got := chunk.BlockID(1, 0, 0); got != 255|2<<8 {
		t.Fatalf("BlockID(1,0,0) = %d, want %d", got, 255|2<<8)
	}
}

func TestAnvilNibbleSelectionByXParity(t *testing.T) {
	data := make([]byte, sectionCells/2)
	// Cells (4,2,3) and (5,2,3) share the packed byte at index 282.
	data[cellIndex(4, 2, 3)/2] = 0xC7

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0, nbt.Compound{
		"Y":    nbt.Byte(0),
		"Data": nbt.ByteArray(data),
	})))

	if got := chunk.BlockData(4, 2, 3); got != 0x7 {
		t.Fatalf("even x nibble = %#x, want 0x7", got)
	}
	if got := chunk.BlockData(5, 2, 3); got != 0xC {
		t.Fatalf("odd x nibble = %#x, want 0xC", got)
	}
}

func TestAnvilLightArrays(t *testing.T) {
	sky := make([]byte, sectionCells/2)
	block := make([]byte, sectionCells/2)
	sky[cellIndex(0, 0, 0)/2] = 0x0F
	block[cellIndex(0, 0, 0)/2] = 0x09

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0, nbt.Compound{
		"Y":          nbt.Byte(0),
		"SkyLight":   nbt.ByteArray(sky),
		"BlockLight": nbt.ByteArray(block),
	})))

	if got := chunk.SkyLight(0, 0, 0); got != 15 {
		t.Fatalf("SkyLight = %d, want 15", got)
	}
	if got := chunk.BlockLight(0, 0, 0); got != 9 {
		t.Fatalf("BlockLight = %d, want 9", got)
	}
}

func TestAnvilBlocksOnlyLeavesRestDefault(t *testing.T) {
	blocks := make([]byte, sectionCells)
	for i := range blocks {
		blocks[i] = byte(i % 256)
	}

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0, nbt.Compound{
		"Y":      nbt.Byte(0),
		"Blocks": nbt.ByteArray(blocks),
	})))

	for x := 0; x < Width; x++ {
		for y := 0; y < SectionHeight; y++ {
			for z := 0; z < Depth; z++ {
				if id := chunk.BlockID(x, y, z); id < 0 || id > 255 {
					t.Fatalf("BlockID(%d,%d,%d) = %d outside [0,255]", x, y, z, id)
				}
				if d := chunk.BlockData(x, y, z); d != 0 {
					t.Fatalf("BlockData(%d,%d,%d) = %d, want 0", x, y, z, d)
				}
				if l := chunk.BlockLight(x, y, z); l != 0 {
					t.Fatalf("BlockLight(%d,%d,%d) = %d, want 0", x, y, z, l)
				}
				if l := chunk.SkyLight(x, y, z); l != 0 {
					t.Fatalf("SkyLight(%d,%d,%d) = %d, want 0", x, y, z, l)
				}
			}
		}
	}
}

func TestAnvilOutOfRangeSectionSkipped(t *testing.T) {
	good := make([]byte, sectionCells)
	good[0] = 3
	bad := make([]byte, sectionCells)
	for i := range bad {
		bad[i] = 1
	}

	chunk := mustDecode(t, rootWith(anvilLevel(0, 0,
		nbt.Compound{"Y": nbt.Byte(16), "Blocks": nbt.ByteArray(bad)},
		nbt.Compound{"Y": nbt.Byte(0), "Blocks": nbt.ByteArray(good)},
	)))

	if got := chunk.PopulatedSections(); got != 1 {
		t.Fatalf("%d sections populated, want 1", got)
	}
	if got := chunk.BlockID(0, 0, 0); got != 3 {
		t.Fatalf("valid section not decoded, BlockID = %d", got)
	}
}

func TestAnvilBiomes(t *testing.T) {
	biomes := make([]byte, Width*Depth)
	for x := 0; x < Width; x++ {
		for z := 0; z < Depth; z++ {
			biomes[x*Width+z] = byte(x*16 + z)
		}
	}
	level := anvilLevel(0, 0)
	level["Biomes"] = nbt.ByteArray(biomes)

	chunk := mustDecode(t, rootWith(level))

	// A column's biome applies regardless of y.
	for _, y := range []int{0, 64, 255} {
		if got := chunk.BiomeID(3, y, 7); got != 3*16+7 {
			t.Fatalf("BiomeID(3,%d,7) = %d, want %d", y, got, 3*16+7)
		}
	}
}
