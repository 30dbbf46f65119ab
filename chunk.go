package rawchunk

const (
	Width  = 16
	Height = 256
	Depth  = 16

	SectionHeight = 16
	MaxSections   = Height / SectionHeight

	// McRegionHeight is the world height of the pre-Anvil flat format.
	McRegionHeight = 128

	MaxLight = 16

	AirID = 0

	// UnknownBiome is returned by BiomeID for chunks whose source data
	// predates biome storage.
	UnknownBiome = -1
)

const sectionCells = Width * SectionHeight * Depth

// cellIndex is the canonical in-memory cell order for a section. It matches
// the Anvil on-disk order (Y outermost, then Z, then X); the flat-format
// decoder converts into this order as it reads.
func cellIndex(x, y, z int) int {
	return x + z*Width + y*Width*Depth
}

// Section is one 16x16x16 sub-volume of a chunk, the unit of sparse
// allocation. Block ids may exceed 255 when an "Add" extension array is
// present; the data and light fields hold 4-bit values.
type Section struct {
	BlockIDs   [sectionCells]uint16
	BlockData  [sectionCells]byte
	SkyLight   [sectionCells]byte
	BlockLight [sectionCells]byte
}

type ChunkCoord struct {
	X int
	Z int
}

// Chunk is the decoded form of one 16x256x16 column of world data: a sparse
// stack of sections plus the tile-entity records anchored inside it. A Chunk
// is populated by a single Decode pass and read-mostly afterwards; the only
// later mutation is lazy section allocation on writes. Decoding different
// chunks on separate goroutines is safe, a single Chunk is not safe for
// concurrent mutation.
type Chunk struct {
	X int
	Z int

	sections [MaxSections]*Section
	biomes   []byte

	Signs      []Sign
	FlowerPots []FlowerPot
	Paintings  []Painting
	Skulls     []Skull
	Beacons    []Beacon
	Banners    []Banner
	ItemFrames []ItemFrame

	filterData map[string]any
}

func (c *Chunk) Coord() ChunkCoord {
	return ChunkCoord{X: c.X, Z: c.Z}
}

func (c *Chunk) section(y int) (*Section, int) {
	return c.sections[y/SectionHeight], y % SectionHeight
}

func (c *Chunk) materialize(y int) (*Section, int) {
	idx := y / SectionHeight
	s := c.sections[idx]
	if s == nil {
		s = &Section{}
		c.sections[idx] = s
	}
	return s, y % SectionHeight
}

// BlockID returns the block id at local coordinates, or AirID when the
// covering section has never been populated.
func (c *Chunk) BlockID(x, y, z int) int {
	s, localY := c.section(y)
	if s == nil {
		return AirID
	}
	return int(s.BlockIDs[cellIndex(x, localY, z)])
}

func (c *Chunk) SetBlockID(x, y, z, id int) {
	s, localY := c.materialize(y)
	s.BlockIDs[cellIndex(x, localY, z)] = uint16(id)
}

// BlockIDClamped returns def for any coordinate outside the chunk bounds.
// Neighbor-aware callers use it to avoid reaching across chunk boundaries.
func (c *Chunk) BlockIDClamped(x, y, z, def int) int {
	if x < 0 || x >= Width {
		return def
	}
	if y < 0 || y >= Height {
		return def
	}
	if z < 0 || z >= Depth {
		return def
	}
	return c.BlockID(x, y, z)
}

func (c *Chunk) BlockData(x, y, z int) byte {
	s, localY := c.section(y)
	if s == nil || x < 0 || x >= Width || z < 0 || z >= Depth {
		return 0
	}
	return s.BlockData[cellIndex(x, localY, z)]
}

func (c *Chunk) SetBlockData(x, y, z int, v byte) {
	s, localY := c.materialize(y)
	s.BlockData[cellIndex(x, localY, z)] = v
}

// SkyLight reads as full daylight (MaxLight-1) where no section exists:
// unpopulated bands are open sky.
func (c *Chunk) SkyLight(x, y, z int) byte {
	s, localY := c.section(y)
	if s == nil {
		return MaxLight - 1
	}
	return s.SkyLight[cellIndex(x, localY, z)]
}

func (c *Chunk) SetSkyLight(x, y, z int, v byte) {
	s, localY := c.materialize(y)
	s.SkyLight[cellIndex(x, localY, z)] = v
}

func (c *Chunk) BlockLight(x, y, z int) byte {
	s, localY := c.section(y)
	if s == nil {
		return 0
	}
	return s.BlockLight[cellIndex(x, localY, z)]
}

func (c *Chunk) SetBlockLight(x, y, z int, v byte) {
	s, localY := c.materialize(y)
	s.BlockLight[cellIndex(x, localY, z)] = v
}

// BiomeID returns the biome of the column containing (x, z), which applies at
// every y. Chunks decoded from data without a biome grid report UnknownBiome.
func (c *Chunk) BiomeID(x, y, z int) int {
	if c.biomes == nil {
		return UnknownBiome
	}
	return int(c.biomes[x*Width+z])
}

// Section returns the section at index i (0..15), or nil when unpopulated.
func (c *Chunk) Section(i int) *Section {
	return c.sections[i]
}

func (c *Chunk) PopulatedSections() int {
	n := 0
	for _, s := range c.sections {
		if s != nil {
			n++
		}
	}
	return n
}

// MemorySize reports the bytes held by populated sections.
func (c *Chunk) MemorySize() int {
	total := 0
	for _, s := range c.sections {
		if s != nil {
			total += sectionCells*2 + sectionCells*3
		}
	}
	return total
}

// SetFilterMetadata attaches arbitrary data under a collaborator-chosen key.
// The chunk attaches no semantics to the contents; collaborating passes use
// this channel to hand state to each other.
func (c *Chunk) SetFilterMetadata(id string, data any) {
	if c.filterData == nil {
		c.filterData = make(map[string]any)
	}
	c.filterData[id] = data
}

func (c *Chunk) FilterMetadata(id string) any {
	return c.filterData[id]
}

func (c *Chunk) RemoveFilterMetadata(id string) {
	delete(c.filterData, id)
}
