// SPDX-License-Identifier: MIT

package main

// Small accessors used throughout the item-walk and map/level decoders.
// NBT values are frequently read as "some integer tag, I don't care which
// width", so AsInt64/AsFloat64 normalize across the scalar tag types.

func (c Compound) tag(key string) (Tag, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	return v, ok
}

func (c Compound) Compound(key string) (Compound, bool) {
	if v, ok := c.tag(key); ok {
		if cc, ok := v.(Compound); ok {
			return cc, true
		}
	}
	return nil, false
}

func (c Compound) List(key string) (List, bool) {
	if v, ok := c.tag(key); ok {
		if l, ok := v.(List); ok {
			return l, true
		}
	}
	return List{}, false
}

func (c Compound) String(key string) (string, bool) {
	if v, ok := c.tag(key); ok {
		if s, ok := v.(StringTag); ok {
			return string(s), true
		}
	}
	return "", false
}

func (c Compound) ByteArray(key string) (ByteArray, bool) {
	if v, ok := c.tag(key); ok {
		if b, ok := v.(ByteArray); ok {
			return b, true
		}
	}
	return nil, false
}

// Int64 normalizes any integral scalar tag (byte/short/int/long) to int64.
func (c Compound) Int64(key string) (int64, bool) {
	v, ok := c.tag(key)
	if !ok {
		return 0, false
	}
	return AsInt64(v)
}

// AsInt64 extracts an int64 from any integral NBT scalar tag.
func AsInt64(v Tag) (int64, bool) {
	switch n := v.(type) {
	case ByteTag:
		return int64(n), true
	case ShortTag:
		return int64(n), true
	case IntTag:
		return int64(n), true
	case LongTag:
		return int64(n), true
	default:
		return 0, false
	}
}
