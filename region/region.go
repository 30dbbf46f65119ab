package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/willf/bitset"
)

const maxOffsets = 1024
const sectorSize = 4096

var ErrNoChunk = errors.New("region: chunk not found")
var ErrInvalidChunkLength = errors.New("region: invalid chunk length")
var ErrInvalidCompression = errors.New("region: invalid compression format")

type compressionType byte

const (
	compressionGzip    compressionType = 1
	compressionDeflate compressionType = 2
)

// Reader reads an Anvil region file and hands out decompressed chunk streams.
// The reader is not safe for concurrent access; usage should be protected by
// a mutex if concurrent access is desired.
type Reader struct {
	source      io.ReadSeeker
	sectorTable []int32
	present     *bitset.BitSet
	Name        string
}

// NewReader creates a Reader. Ownership of the source is transferred to it.
func NewReader(source io.ReadSeeker) (*Reader, error) {
	reader := &Reader{
		source:      source,
		sectorTable: make([]int32, maxOffsets),
		present:     bitset.New(maxOffsets),
	}
	if file, ok := source.(*os.File); ok {
		reader.Name = file.Name()
	}
	if err := reader.readSectorTable(); err != nil {
		return nil, err
	}
	return reader, nil
}

func (r *Reader) readSectorTable() error {
	if _, err := r.source.Seek(0, io.SeekStart); err != nil {
		return err
	}

	rawSectorData := make([]byte, sectorSize)
	if _, err := io.ReadFull(r.source, rawSectorData); err != nil {
		return err
	}

	rawSectorIn := bytes.NewReader(rawSectorData)
	if err := binary.Read(rawSectorIn, binary.BigEndian, r.sectorTable); err != nil {
		return err
	}
	for i, offset := range r.sectorTable {
		if offset != 0 {
			r.present.Set(uint(i))
		}
	}
	return nil
}

// ReadChunk returns a decompressed stream for the chunk at the given
// region-relative coordinates (0..31 each, not chunk coordinates). The stream
// is suitable for NBT deserialization.
func (r *Reader) ReadChunk(x, z int) (io.Reader, error) {
	offset := r.sectorTable[x+z*32]

	sectorNumber := offset >> 8
	occupiedSectors := offset & 0xff
	if sectorNumber == 0 {
		return nil, ErrNoChunk
	}

	if _, err := r.source.Seek(int64(sectorNumber*sectorSize), io.SeekStart); err != nil {
		return nil, err
	}

	sectorData := make([]byte, occupiedSectors*sectorSize)
	if _, err := io.ReadFull(r.source, sectorData); err != nil {
		return nil, err
	}

	sectorReader := bytes.NewReader(sectorData)
	var sectorHeader struct {
		Length      int32
		Compression compressionType
	}
	if err := binary.Read(sectorReader, binary.BigEndian, &sectorHeader); err != nil {
		return nil, err
	}

	if sectorHeader.Length > int32(len(sectorData)-5) {
		return nil, ErrInvalidChunkLength
	}

	chunkStream := io.LimitReader(sectorReader, int64(sectorHeader.Length))
	switch sectorHeader.Compression {
	case compressionGzip:
		return gzip.NewReader(chunkStream)
	case compressionDeflate:
		return zlib.NewReader(chunkStream)
	default:
		return nil, ErrInvalidCompression
	}
}

func (r *Reader) ChunkExists(x, z int) bool {
	return r.present.Test(uint(x + z*32))
}

// ChunkCount reports how many of the 1024 chunk slots are populated.
func (r *Reader) ChunkCount() int {
	return int(r.present.Count())
}

func (r *Reader) Close() error {
	if closer, ok := r.source.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
