package nbt

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

func Marshal(w io.Writer, name string, tag Tag) error {
	return NewEncoder(w).Encode(name, tag)
}

type Encoder struct {
	w io.Writer
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes tag as a named tag in the uncompressed binary form. Compound
// children are written in sorted name order so the output is deterministic.
func (e *Encoder) Encode(name string, tag Tag) error {
	if tag == nil {
		return errors.New("nbt: cannot encode nil tag")
	}
	if err := e.writeTag(byte(tag.Type()), name); err != nil {
		return err
	}
	return e.writePayload(tag)
}

func (e *Encoder) writePayload(tag Tag) error {
	switch v := tag.(type) {
	case Byte:
		_, err := e.w.Write([]byte{byte(v)})
		return err

	case Short:
		return e.writeInt16(int16(v))

	case Int:
		return e.writeInt32(int32(v))

	case Long:
		return e.writeInt64(int64(v))

	case Float:
		return e.writeInt32(int32(math.Float32bits(float32(v))))

	case Double:
		return e.writeInt64(int64(math.Float64bits(float64(v))))

	case ByteArray:
		if err := e.writeInt32(int32(len(v))); err != nil {
			return err
		}
		_, err := e.w.Write(v)
		return err

	case String:
		return e.writeString(string(v))

	case *List:
		if _, err := e.w.Write([]byte{byte(v.Element)}); err != nil {
			return err
		}
		if err := e.writeInt32(int32(len(v.Items))); err != nil {
			return err
		}
		for _, item := range v.Items {
			if item.Type() != v.Element {
				return fmt.Errorf("nbt: list element type %d does not match declared type %d", item.Type(), v.Element)
			}
			if err := e.writePayload(item); err != nil {
				return err
			}
		}
		return nil

	case Compound:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := e.Encode(name, v[name]); err != nil {
				return err
			}
		}
		_, err := e.w.Write([]byte{byte(TagEnd)})
		return err

	case IntArray:
		if err := e.writeInt32(int32(len(v))); err != nil {
			return err
		}
		for _, n := range v {
			if err := e.writeInt32(n); err != nil {
				return err
			}
		}
		return nil

	case LongArray:
		if err := e.writeInt32(int32(len(v))); err != nil {
			return err
		}
		for _, n := range v {
			if err := e.writeInt64(n); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("nbt: unknown tag %T", tag)
	}
}

func (e *Encoder) writeTag(tagType byte, tagName string) error {
	if _, err := e.w.Write([]byte{tagType}); err != nil {
		return err
	}
	return e.writeString(tagName)
}

func (e *Encoder) writeString(s string) error {
	bName := []byte(s)
	if err := e.writeInt16(int16(len(bName))); err != nil {
		return err
	}
	_, err := e.w.Write(bName)
	return err
}

func (e *Encoder) writeInt16(n int16) error {
	_, err := e.w.Write([]byte{byte(n >> 8), byte(n)})
	return err
}

func (e *Encoder) writeInt32(n int32) error {
	_, err := e.w.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	return err
}

func (e *Encoder) writeInt64(n int64) error {
	_, err := e.w.Write([]byte{
		byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32),
		byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	return err
}
