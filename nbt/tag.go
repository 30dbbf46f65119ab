package nbt

// TagType identifies the payload type of an NBT tag.
type TagType byte

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
	TagIntArray
	TagLongArray
)

// Tag is a single node of a parsed NBT tree. Consumers that only need to walk
// an already-parsed tree should depend on this interface and the typed
// accessors on Compound and List rather than on the stream codec.
type Tag interface {
	Type() TagType
}

type Byte int8
type Short int16
type Int int32
type Long int64
type Float float32
type Double float64
type ByteArray []byte
type String string
type IntArray []int32
type LongArray []int64

// List holds the element type alongside the items so that empty lists keep
// their declared type across a round trip.
type List struct {
	Element TagType
	Items   []Tag
}

// Compound maps child names to tags.
type Compound map[string]Tag

func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (*List) Type() TagType     { return TagList }
func (Compound) Type() TagType  { return TagCompound }
func (IntArray) Type() TagType  { return TagIntArray }
func (LongArray) Type() TagType { return TagLongArray }

// The accessors below treat a missing child and a child of the wrong type the
// same way: as absent. Chunk data in the wild is full of both.

func (c Compound) Byte(name string) (int8, bool) {
	if v, ok := c[name].(Byte); ok {
		return int8(v), true
	}
	return 0, false
}

// ByteOr reads a byte child, falling back to def when it is absent.
func (c Compound) ByteOr(name string, def int8) int8 {
	if v, ok := c.Byte(name); ok {
		return v
	}
	return def
}

func (c Compound) Short(name string) (int16, bool) {
	if v, ok := c[name].(Short); ok {
		return int16(v), true
	}
	return 0, false
}

func (c Compound) Int(name string) (int32, bool) {
	if v, ok := c[name].(Int); ok {
		return int32(v), true
	}
	return 0, false
}

func (c Compound) Long(name string) (int64, bool) {
	if v, ok := c[name].(Long); ok {
		return int64(v), true
	}
	return 0, false
}

func (c Compound) String(name string) (string, bool) {
	if v, ok := c[name].(String); ok {
		return string(v), true
	}
	return "", false
}

func (c Compound) ByteArray(name string) ([]byte, bool) {
	if v, ok := c[name].(ByteArray); ok {
		return []byte(v), true
	}
	return nil, false
}

func (c Compound) IntArray(name string) ([]int32, bool) {
	if v, ok := c[name].(IntArray); ok {
		return []int32(v), true
	}
	return nil, false
}

func (c Compound) List(name string) (*List, bool) {
	if v, ok := c[name].(*List); ok {
		return v, true
	}
	return nil, false
}

func (c Compound) Compound(name string) (Compound, bool) {
	if v, ok := c[name].(Compound); ok {
		return v, true
	}
	return nil, false
}

// CompoundAt returns the i'th item of the list if it is a compound.
func (l *List) CompoundAt(i int) (Compound, bool) {
	if l == nil || i < 0 || i >= len(l.Items) {
		return nil, false
	}
	v, ok := l.Items[i].(Compound)
	return v, ok
}
