package rawchunk

import (
	"testing"

	"github.com/minemap/rawchunk/nbt"
)

const flatCells = Width * McRegionHeight * Depth

func flatLevel(x, z int) nbt.Compound {
	return nbt.Compound{
		"xPos": nbt.Int(int32(x)),
		"zPos": nbt.Int(int32(z)),
	}
}

func TestMcRegionAllocatesLowerSectionsOnly(t *testing.T) {
	chunk := mustDecode(t, rootWith(flatLevel(0, 0)))

	if got := chunk.PopulatedSections(); got != 8 {
		t.Fatalf("%d sections populated, want 8", got)
	}
	for i := 0; i < 8; i++ {
		if chunk.Section(i) == nil {
			t.Fatalf("section %d not allocated", i)
		}
	}
	for i := 8; i < MaxSections; i++ {
		if chunk.Section(i) != nil {
			t.Fatalf("section %d allocated above flat world height", i)
		}
	}

	// Above 128, reads come from absent sections: air and default light.
	if got := chunk.BlockID(0, 200, 0); got != AirID {
		t.Fatalf("BlockID above flat height = %d, want air", got)
	}
	if got := chunk.SkyLight(0, 200, 0); got != MaxLight-1 {
		t.Fatalf("SkyLight above flat height = %d, want %d", got, MaxLight-1)
	}
	// Below 128 the sections exist, so light reads as stored (zero).
	if got := chunk.SkyLight(0, 64, 0); got != 0 {
		t.Fatalf("SkyLight below flat height = %d, want 0", got)
	}
}

func TestMcRegionBlockIndexOrder(t *testing.T) {
	blocks := make([]byte, flatCells)
	// On-disk index is y + z*128 + x*128*16: Y innermost, unlike Anvil.
	blocks[100+7*128+3*128*16] = 49

	level := flatLevel(0, 0)
	level["Blocks"] = nbt.ByteArray(blocks)
	chunk := mustDecode(t, rootWith(level))

	if got := chunk.BlockID(3, 100, 7); got != 49 {
		t.Fatalf("BlockID(3,100,7) = %d, want 49", got)
	}
	if got := chunk.BlockID(7, 3, 100%Depth); got != 0 {
		t.Fatalf("axis-swapped cell unexpectedly set: %d", got)
	}
}

func TestMcRegionHighBlockIDsUnsigned(t *testing.T) {
	blocks := make([]byte, flatCells)
	blocks[mcRegionIndex(0, 0, 0)] = 0xF0

	level := flatLevel(0, 0)
	level["Blocks"] = nbt.ByteArray(blocks)
	chunk := mustDecode(t, rootWith(level))

	if got := chunk.BlockID(0, 0, 0); got != 0xF0 {
		t.Fatalf("BlockID = %d, want 240", got)
	}
}

func TestMcRegionNibbleSelectionByYParity(t *testing.T) {
	data := make([]byte, flatCells/2)
	// Cells (2,4,1) and (2,5,1) share the packed byte; even y takes the low
	// nibble, odd y the high one.
	data[mcRegionIndex(2, 4, 1)/2] = 0xA7

	level := flatLevel(0, 0)
	level["Data"] = nbt.ByteArray(data)
	chunk := mustDecode(t, rootWith(level))

	if got := chunk.BlockData(2, 4, 1); got != 0x7 {
		t.Fatalf("even y nibble = %#x, want 0x7", got)
	}
	if got := chunk.BlockData(2, 5, 1); got != 0xA {
		t.Fatalf("odd y nibble = %#x, want 0xA", got)
	}
}

func TestMcRegionLightArrays(t *testing.T) {
	sky := make([]byte, flatCells/2)
	block := make([]byte, flatCells/2)
	sky[mcRegionIndex(0, 0, 0)/2] = 0x0F
	block[mcRegionIndex(0, 0, 0)/2] = 0x03

	level := flatLevel(0, 0)
	level["SkyLight"] = nbt.ByteArray(sky)
	level["BlockLight"] = nbt.ByteArray(block)
	chunk := mustDecode(t, rootWith(level))

	if got := chunk.SkyLight(0, 0, 0); got != 15 {
		t.Fatalf("SkyLight = %d, want 15", got)
	}
	if got := chunk.BlockLight(0, 0, 0); got != 3 {
		t.Fatalf("BlockLight = %d, want 3", got)
	}
}
