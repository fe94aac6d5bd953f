// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildNBT assembles a minimal big-endian NBT document by hand, to test
// the parser without depending on any real save file.
func buildNBT(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	buf.WriteByte(byte(TagCompound))
	writeNBTString(&buf, "") // root name

	// "x": Int 42
	buf.WriteByte(byte(TagInt))
	writeNBTString(&buf, "x")
	binary.Write(&buf, binary.BigEndian, int32(42))

	// "nested": Compound { "s": String "hi" }
	buf.WriteByte(byte(TagCompound))
	writeNBTString(&buf, "nested")
	buf.WriteByte(byte(TagString))
	writeNBTString(&buf, "s")
	writeNBTString(&buf, "hi")
	buf.WriteByte(byte(TagEnd))

	// "list": List<Int> [1, 2, 3]
	buf.WriteByte(byte(TagList))
	writeNBTString(&buf, "list")
	buf.WriteByte(byte(TagInt))
	binary.Write(&buf, binary.BigEndian, int32(3))
	binary.Write(&buf, binary.BigEndian, int32(1))
	binary.Write(&buf, binary.BigEndian, int32(2))
	binary.Write(&buf, binary.BigEndian, int32(3))

	buf.WriteByte(byte(TagEnd)) // end of root

	return buf.Bytes()
}

func writeNBTString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.BigEndian, int16(len(s)))
	buf.WriteString(s)
}

func TestParseNBT(t *testing.T) {
	data := buildNBT(t)
	name, root, err := ParseNBT(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseNBT: %v", err)
	}
	if name != "" {
		t.Errorf("root name = %q, want empty", name)
	}

	x, ok := root.Int64("x")
	if !ok || x != 42 {
		t.Errorf("root[x] = %v, %v; want 42, true", x, ok)
	}

	nested, ok := root.Compound("nested")
	if !ok {
		t.Fatal("root[nested] missing or not a compound")
	}
	s, ok := nested.String("s")
	if !ok || s != "hi" {
		t.Errorf("nested[s] = %q, %v; want \"hi\", true", s, ok)
	}

	list, ok := root.List("list")
	if !ok || len(list.Items) != 3 {
		t.Fatalf("root[list] = %v, %v; want 3 items", list, ok)
	}
	for i, want := range []int32{1, 2, 3} {
		got, ok := AsInt64(list.Items[i])
		if !ok || int32(got) != want {
			t.Errorf("list[%d] = %v, want %d", i, got, want)
		}
	}
}

func TestParseNBTDeepNesting(t *testing.T) {
	// Build a compound nested 2000 levels deep, to verify the iterative
	// stack-based parser doesn't blow the native Go stack.
	depth := 2000
	var buf bytes.Buffer
	buf.WriteByte(byte(TagCompound))
	writeNBTString(&buf, "")
	for i := 0; i < depth; i++ {
		buf.WriteByte(byte(TagCompound))
		writeNBTString(&buf, "c")
	}
	buf.WriteByte(byte(TagInt))
	writeNBTString(&buf, "leaf")
	binary.Write(&buf, binary.BigEndian, int32(7))
	for i := 0; i < depth; i++ {
		buf.WriteByte(byte(TagEnd))
	}
	buf.WriteByte(byte(TagEnd))

	_, root, err := ParseNBT(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseNBT: %v", err)
	}

	cur := root
	for i := 0; i < depth; i++ {
		next, ok := cur.Compound("c")
		if !ok {
			t.Fatalf("missing nested compound at depth %d", i)
		}
		cur = next
	}
	leaf, ok := cur.Int64("leaf")
	if !ok || leaf != 7 {
		t.Errorf("leaf = %v, %v; want 7, true", leaf, ok)
	}
}
