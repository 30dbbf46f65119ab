package nbt

import (
	"errors"
	"fmt"
	"io"
	"math"
)

var ErrUnexpectedEnd = errors.New("nbt: unexpected TAG_End")

type Decoder struct {
	r   io.Reader
	buf [8]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads one named tag from the stream and returns its parsed tree.
// The stream must be uncompressed; the root name is discarded.
func (d *Decoder) Decode() (Tag, error) {
	typ, err := d.readByte()
	if err != nil {
		return nil, err
	}
	if TagType(typ) == TagEnd {
		return nil, ErrUnexpectedEnd
	}
	if _, err := d.readString(); err != nil {
		return nil, err
	}
	return d.readPayload(TagType(typ))
}

func (d *Decoder) readPayload(typ TagType) (Tag, error) {
	switch typ {
	case TagByte:
		b, err := d.readByte()
		return Byte(b), err

	case TagShort:
		n, err := d.readInt16()
		return Short(n), err

	case TagInt:
		n, err := d.readInt32()
		return Int(n), err

	case TagLong:
		n, err := d.readInt64()
		return Long(n), err

	case TagFloat:
		n, err := d.readInt32()
		return Float(math.Float32frombits(uint32(n))), err

	case TagDouble:
		n, err := d.readInt64()
		return Double(math.Float64frombits(uint64(n))), err

	case TagByteArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative byte array length %d", n)
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return nil, err
		}
		return ByteArray(buf), nil

	case TagString:
		s, err := d.readString()
		return String(s), err

	case TagList:
		elem, err := d.readByte()
		if err != nil {
			return nil, err
		}
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative list length %d", n)
		}
		list := &List{Element: TagType(elem)}
		for i := int32(0); i < n; i++ {
			item, err := d.readPayload(TagType(elem))
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		return list, nil

	case TagCompound:
		compound := Compound{}
		for {
			childType, err := d.readByte()
			if err != nil {
				return nil, err
			}
			if TagType(childType) == TagEnd {
				return compound, nil
			}
			name, err := d.readString()
			if err != nil {
				return nil, err
			}
			child, err := d.readPayload(TagType(childType))
			if err != nil {
				return nil, err
			}
			compound[name] = child
		}

	case TagIntArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative int array length %d", n)
		}
		values := make(IntArray, 0, 64)
		for i := int32(0); i < n; i++ {
			v, err := d.readInt32()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil

	case TagLongArray:
		n, err := d.readInt32()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("nbt: negative long array length %d", n)
		}
		values := make(LongArray, 0, 64)
		for i := int32(0); i < n; i++ {
			v, err := d.readInt64()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil

	default:
		return nil, fmt.Errorf("nbt: unknown tag type %d", typ)
	}
}

func (d *Decoder) readByte() (byte, error) {
	if _, err := io.ReadFull(d.r, d.buf[:1]); err != nil {
		return 0, err
	}
	return d.buf[0], nil
}

func (d *Decoder) readInt16() (int16, error) {
	if _, err := io.ReadFull(d.r, d.buf[:2]); err != nil {
		return 0, err
	}
	return int16(uint16(d.buf[0])<<8 | uint16(d.buf[1])), nil
}

func (d *Decoder) readInt32() (int32, error) {
	if _, err := io.ReadFull(d.r, d.buf[:4]); err != nil {
		return 0, err
	}
	return int32(uint32(d.buf[0])<<24 | uint32(d.buf[1])<<16 | uint32(d.buf[2])<<8 | uint32(d.buf[3])), nil
}

func (d *Decoder) readInt64() (int64, error) {
	if _, err := io.ReadFull(d.r, d.buf[:8]); err != nil {
		return 0, err
	}
	var n uint64
	for _, b := range d.buf[:8] {
		n = n<<8 | uint64(b)
	}
	return int64(n), nil
}

func (d *Decoder) readString() (string, error) {
	n, err := d.readInt16()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("nbt: negative string length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
