// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// TagType is the single-byte discriminator that precedes every NBT value.
type TagType byte

const (
	TagEnd       TagType = 0
	TagByte      TagType = 1
	TagShort     TagType = 2
	TagInt       TagType = 3
	TagLong      TagType = 4
	TagFloat     TagType = 5
	TagDouble    TagType = 6
	TagByteArray TagType = 7
	TagString    TagType = 8
	TagList      TagType = 9
	TagCompound  TagType = 10
	TagIntArray  TagType = 11
	TagLongArray TagType = 12
)

// Tag is any decoded NBT value. The concrete types below cover every
// payload shape in the format; there is no reflection involved in reading
// or walking them.
type Tag interface{ nbtTag() }

type Compound map[string]Tag
type List struct {
	ElemType TagType
	Items    []Tag
}
type ByteTag int8
type ShortTag int16
type IntTag int32
type LongTag int64
type FloatTag float32
type DoubleTag float64
type ByteArray []byte
type StringTag string
type IntArray []int32
type LongArray []int64

func (Compound) nbtTag()  {}
func (List) nbtTag()      {}
func (ByteTag) nbtTag()   {}
func (ShortTag) nbtTag()  {}
func (IntTag) nbtTag()    {}
func (LongTag) nbtTag()   {}
func (FloatTag) nbtTag()  {}
func (DoubleTag) nbtTag() {}
func (ByteArray) nbtTag() {}
func (StringTag) nbtTag() {}
func (IntArray) nbtTag()  {}
func (LongArray) nbtTag() {}

// ParseNBT reads one big-endian NBT document (a named root compound tag)
// from r and returns its root name and contents.
func ParseNBT(r io.Reader) (string, Compound, error) {
	br := &nbtReader{r: bufio.NewReader(r)}
	tagType, err := br.readTagType()
	if err != nil {
		return "", nil, err
	}
	if tagType != TagCompound {
		return "", nil, fmt.Errorf("nbt: root tag is type %d, not a compound", tagType)
	}
	name, err := br.readString()
	if err != nil {
		return "", nil, err
	}
	root, err := br.readCompoundTree()
	if err != nil {
		return "", nil, err
	}
	return name, root, nil
}

// compFrame and listFrame are the two kinds of composite-in-progress on the
// work stack used by readCompoundTree. Walking NBT this way, rather than
// recursing into readValue for nested compounds/lists, keeps stack depth
// bounded regardless of how deeply an item is nested inside other items.
type compFrame struct {
	result      Compound
	pendingKey  string
	pendingType TagType
	haveKey     bool
}

type listFrame struct {
	elemType  TagType
	remaining int32
	items     []Tag
}

type nbtReader struct {
	r *bufio.Reader
}

// readCompoundTree reads the payload of a compound tag (the caller has
// already consumed its type byte and name) using an explicit stack instead
// of native recursion.
func (br *nbtReader) readCompoundTree() (Compound, error) {
	root := &compFrame{result: Compound{}}
	stack := []interface{}{root}

	attach := func(v Tag) error {
		if len(stack) == 0 {
			return fmt.Errorf("nbt: value produced with no container to attach to")
		}
		switch top := stack[len(stack)-1].(type) {
		case *compFrame:
			top.result[top.pendingKey] = v
			top.haveKey = false
		case *listFrame:
			top.items = append(top.items, v)
			top.remaining--
		}
		return nil
	}

	for len(stack) > 0 {
		switch f := stack[len(stack)-1].(type) {
		case *compFrame:
			if !f.haveKey {
				tagType, err := br.readTagType()
				if err != nil {
					return nil, err
				}
				if tagType == TagEnd {
					stack = stack[:len(stack)-1]
					if len(stack) == 0 {
						return f.result, nil
					}
					if err := attach(f.result); err != nil {
						return nil, err
					}
					continue
				}
				name, err := br.readString()
				if err != nil {
					return nil, err
				}
				f.pendingKey, f.pendingType, f.haveKey = name, tagType, true
			}

			value, pushed, err := br.readScalarOrPush(f.pendingType)
			if err != nil {
				return nil, err
			}
			if pushed != nil {
				stack = append(stack, pushed)
				continue
			}
			f.result[f.pendingKey] = value
			f.haveKey = false

		case *listFrame:
			if f.remaining == 0 {
				stack = stack[:len(stack)-1]
				list := List{ElemType: f.elemType, Items: f.items}
				if len(stack) == 0 {
					return nil, fmt.Errorf("nbt: list at document root")
				}
				if err := attach(list); err != nil {
					return nil, err
				}
				continue
			}

			value, pushed, err := br.readScalarOrPush(f.elemType)
			if err != nil {
				return nil, err
			}
			if pushed != nil {
				stack = append(stack, pushed)
				continue
			}
			f.items = append(f.items, value)
			f.remaining--
		}
	}
	return nil, fmt.Errorf("nbt: unexpected end of stack")
}

// readScalarOrPush reads one value of the given tag type. If the type is a
// composite (compound or non-empty list), it returns a new frame instead of
// a value; the caller must push that frame and continue the loop with it on
// top of the stack.
func (br *nbtReader) readScalarOrPush(tagType TagType) (Tag, interface{}, error) {
	switch tagType {
	case TagCompound:
		return nil, &compFrame{result: Compound{}}, nil
	case TagList:
		elemType, err := br.readTagType()
		if err != nil {
			return nil, nil, err
		}
		count, err := br.readInt32()
		if err != nil {
			return nil, nil, err
		}
		if count <= 0 || elemType == TagEnd {
			return List{ElemType: elemType}, nil, nil
		}
		return nil, &listFrame{elemType: elemType, remaining: count}, nil
	case TagByte:
		v, err := br.readByte()
		return ByteTag(int8(v)), nil, err
	case TagShort:
		v, err := br.readInt16()
		return ShortTag(v), nil, err
	case TagInt:
		v, err := br.readInt32()
		return IntTag(v), nil, err
	case TagLong:
		v, err := br.readInt64()
		return LongTag(v), nil, err
	case TagFloat:
		v, err := br.readInt32()
		return FloatTag(math.Float32frombits(uint32(v))), nil, err
	case TagDouble:
		v, err := br.readInt64()
		return DoubleTag(math.Float64frombits(uint64(v))), nil, err
	case TagByteArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br.r, buf); err != nil {
			return nil, nil, err
		}
		return ByteArray(buf), nil, nil
	case TagString:
		s, err := br.readString()
		return StringTag(s), nil, err
	case TagIntArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, nil, err
		}
		out := make(IntArray, n)
		for i := range out {
			v, err := br.readInt32()
			if err != nil {
				return nil, nil, err
			}
			out[i] = v
		}
		return out, nil, nil
	case TagLongArray:
		n, err := br.readInt32()
		if err != nil {
			return nil, nil, err
		}
		out := make(LongArray, n)
		for i := range out {
			v, err := br.readInt64()
			if err != nil {
				return nil, nil, err
			}
			out[i] = v
		}
		return out, nil, nil
	default:
		return nil, nil, fmt.Errorf("nbt: unknown tag type %d", tagType)
	}
}

func (br *nbtReader) readTagType() (TagType, error) {
	b, err := br.r.ReadByte()
	return TagType(b), err
}

func (br *nbtReader) readByte() (byte, error) {
	return br.r.ReadByte()
}

func (br *nbtReader) readInt16() (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(br.r, buf[:]); err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

func (br *nbtReader) readInt32() (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(br.r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func (br *nbtReader) readInt64() (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(br.r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func (br *nbtReader) readString() (string, error) {
	n, err := br.readInt16()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("nbt: negative string length")
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
