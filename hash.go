package rawchunk

import (
	"encoding/binary"
	"hash"
	"strconv"
)

// CalculateHash feeds the decoded state into digest and returns the sum. The
// traversal order is fixed: sections 0..15 (ids, data, sky light, block light,
// with a single placeholder byte standing in for an absent section), then the
// signs in extraction order (decimal coordinates, then the four text lines).
//
// The result is a pure function of decoded state, so hashing the same chunk
// twice with fresh digest instances yields identical bytes. Callers use it
// only as an opaque change-detection token. Digest instances must not be
// shared across concurrent calls.
func (c *Chunk) CalculateHash(digest hash.Hash) []byte {
	digest.Reset()

	idBytes := make([]byte, sectionCells*2)
	for _, s := range c.sections {
		if s == nil {
			digest.Write([]byte{0})
			continue
		}
		for i, id := range s.BlockIDs {
			binary.LittleEndian.PutUint16(idBytes[i*2:], id)
		}
		digest.Write(idBytes)
		digest.Write(s.BlockData[:])
		digest.Write(s.SkyLight[:])
		digest.Write(s.BlockLight[:])
	}

	for _, sign := range c.Signs {
		digest.Write([]byte(strconv.Itoa(sign.X)))
		digest.Write([]byte(strconv.Itoa(sign.Y)))
		digest.Write([]byte(strconv.Itoa(sign.Z)))
		digest.Write([]byte(sign.Text1))
		digest.Write([]byte(sign.Text2))
		digest.Write([]byte(sign.Text3))
		digest.Write([]byte(sign.Text4))
	}

	return digest.Sum(nil)
}
