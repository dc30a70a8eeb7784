package elf

import (
	"bytes"
	"testing"

	"github.com/lunixbochs/struc"
)

func TestRecordSizes(t *testing.T) {
	cases := []struct {
		name string
		rec  interface{}
		want int
	}{
		{"file header", &FileHeader{}, HeaderSize},
		{"program header", &ProgHeader{}, ProgHeaderSize},
		{"section header", &SectionHeader{}, SectionHeaderSize},
		{"symbol", &Sym{}, SymSize},
		{"rel", &Rel{}, 8},
		{"rela", &Rela{}, 12},
	}
	for _, c := range cases {
		n, err := struc.Sizeof(c.rec)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if n != c.want {
			t.Errorf("%s packs to %d bytes, want %d", c.name, n, c.want)
		}
	}
}

func TestMatch(t *testing.T) {
	img := buildObject(t, testObject{})
	if !Match(bytes.NewReader(img)) {
		t.Error("rejected a valid image")
	}
	if Match(bytes.NewReader(img[:2])) {
		t.Error("matched a 2-byte file")
	}
	if Match(bytes.NewReader([]byte("MZP\x00this is not an object"))) {
		t.Error("matched a foreign magic")
	}
	// class is not Match's concern
	img[EI_CLASS] = byte(ELFCLASS64)
	if !Match(bytes.NewReader(img)) {
		t.Error("rejected on class byte")
	}
}

func TestSymInfoRoundTrip(t *testing.T) {
	for b := 0; b < 16; b++ {
		for typ := 0; typ < 16; typ++ {
			s := Sym{Info: SymInfo(SymBind(b), SymType(typ))}
			if s.Bind() != SymBind(b) || s.Type() != SymType(typ) {
				t.Fatalf("bind %d type %d round-tripped to %d/%d", b, typ, s.Bind(), s.Type())
			}
		}
	}
	// the type argument is masked to its nibble
	if SymInfo(STB_LOCAL, SymType(0xff)) != 0x0f {
		t.Error("type nibble not masked")
	}
}

func TestRelInfoRoundTrip(t *testing.T) {
	cases := []struct {
		sym uint32
		typ byte
	}{
		{0, 0},
		{1, 7},
		{0xffffff, 0xff},
		{12345, 2},
	}
	for _, c := range cases {
		info := RInfo(c.sym, c.typ)
		if RSym(info) != c.sym || RType(info) != c.typ {
			t.Errorf("RInfo(%d, %d) unpacked to %d, %d", c.sym, c.typ, RSym(info), RType(info))
		}
	}
}
