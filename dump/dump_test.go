package dump

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/objtools/objio/elf"
	"github.com/objtools/objio/srec"
)

// buildFile assembles a little-endian executable with one loadable
// segment, a text section, and a symbol table, then decodes it.
func buildFile(t *testing.T) *elf.File {
	t.Helper()
	var buf bytes.Buffer
	w := func(v interface{}) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatal(err)
		}
	}

	shstr := []byte("\x00.text\x00.shstrtab\x00.symtab\x00.strtab\x00")
	strtab := []byte("\x00main\x00_ZN3foo3barEv\x00abc2\x00abc10\x00")
	text := bytes.Repeat([]byte{0x90}, 16)
	syms := []elf.Sym{
		{},
		{Name: 1, Value: 0x8000, Size: 16, Info: elf.SymInfo(elf.STB_GLOBAL, elf.STT_FUNC), Shndx: 1},
		{Name: 6, Value: 0x8010, Info: elf.SymInfo(elf.STB_WEAK, elf.STT_FUNC), Shndx: 1},
		{Name: 20, Value: 0x9000, Info: elf.SymInfo(elf.STB_LOCAL, elf.STT_OBJECT), Shndx: 1},
		{Name: 25, Value: 0x9004, Info: elf.SymInfo(elf.STB_LOCAL, elf.STT_OBJECT), Shndx: 1},
	}

	var (
		textOff  = uint32(elf.HeaderSize + elf.ProgHeaderSize)
		shstrOff = textOff + uint32(len(text))
		symOff   = shstrOff + uint32(len(shstr))
		strOff   = symOff + uint32(len(syms)*elf.SymSize)
		shoff    = strOff + uint32(len(strtab))
	)

	hdr := elf.FileHeader{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_386),
		Version:   elf.EV_CURRENT,
		Entry:     0x8000,
		Phoff:     elf.HeaderSize,
		Shoff:     shoff,
		Ehsize:    elf.HeaderSize,
		Phentsize: elf.ProgHeaderSize,
		Phnum:     1,
		Shentsize: elf.SectionHeaderSize,
		Shnum:     5,
		Shstrndx:  2,
	}
	copy(hdr.Ident[:4], "\x7fELF")
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = elf.EV_CURRENT

	w(hdr)
	w(elf.ProgHeader{
		Type: uint32(elf.PT_LOAD), Off: textOff,
		Vaddr: 0x8000, Paddr: 0x8000,
		Filesz: 16, Memsz: 16,
		Flags: elf.PF_R | elf.PF_X, Align: 4,
	})
	w(text)
	w(shstr)
	w(syms)
	w(strtab)
	w([]elf.SectionHeader{
		{},
		{Name: 1, Type: uint32(elf.SHT_PROGBITS), Flags: elf.SHF_ALLOC | elf.SHF_EXECINSTR, Addr: 0x8000, Off: textOff, Size: 16},
		{Name: 7, Type: uint32(elf.SHT_STRTAB), Off: shstrOff, Size: uint32(len(shstr))},
		{Name: 17, Type: uint32(elf.SHT_SYMTAB), Off: symOff, Size: uint32(len(syms) * elf.SymSize), Link: 4, Entsize: elf.SymSize},
		{Name: 25, Type: uint32(elf.SHT_STRTAB), Off: strOff, Size: uint32(len(strtab))},
	})

	f, err := elf.NewFile(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.LoadProgHeaders(); err != nil {
		t.Fatal(err)
	}
	if err := f.LoadSectHeaders(); err != nil {
		t.Fatal(err)
	}
	if err := f.LoadPayloads(); err != nil {
		t.Fatal(err)
	}
	return f
}

func contains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestHeader(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	Header(&out, f, nil)
	contains(t, out.String(),
		"ELF file header:",
		"Executable file.",
		"Intel 80386",
		"Current.",
		"32-bit objects.",
		"LITTLE",
		"0x00008000",
	)
	if strings.Contains(out.String(), "\x1b[") {
		t.Error("color escapes present without Color set")
	}
}

func TestHeaderColor(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	Header(&out, f, &Config{Color: true})
	if !strings.Contains(out.String(), "\x1b[") {
		t.Error("no color escapes with Color set")
	}
}

func TestProgTable(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	if err := ProgTable(&out, f, nil); err != nil {
		t.Fatal(err)
	}
	contains(t, out.String(), "Program header table:", "LOAD", "0x00008000")
}

func TestSectTable(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	if err := SectTable(&out, f, nil); err != nil {
		t.Fatal(err)
	}
	contains(t, out.String(),
		"Section header table:",
		".text", "PROGBITS",
		".symtab", "SYMTAB",
		".strtab", "STRTAB",
	)
}

func TestSymbols(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	if err := Symbols(&out, f, nil); err != nil {
		t.Fatal(err)
	}
	contains(t, out.String(),
		"Symbol table .symtab (5 entries):",
		"main", "FUNC", "GLOBAL",
		"_ZN3foo3barEv",
	)
}

func TestSymbolsDemangle(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	if err := Symbols(&out, f, &Config{Demangle: true}); err != nil {
		t.Fatal(err)
	}
	contains(t, out.String(), "foo::bar")
	if strings.Contains(out.String(), "_ZN3foo3barEv") {
		t.Error("mangled name left in demangled output")
	}
}

func TestSymbolsSorted(t *testing.T) {
	f := buildFile(t)
	var out bytes.Buffer
	if err := Symbols(&out, f, &Config{SortSyms: true}); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	i2, i10 := strings.Index(s, "abc2"), strings.Index(s, "abc10")
	if i2 < 0 || i10 < 0 {
		t.Fatalf("symbols missing from output\n%s", s)
	}
	if i2 > i10 {
		t.Error("abc10 sorted before abc2")
	}
}

func TestSegments(t *testing.T) {
	img := &srec.Image{
		Header:  "HDR",
		Entry:   0x30,
		Records: 2,
		Segments: []srec.Segment{
			{Addr: 0x10, Data: []byte{1, 2, 3, 4}},
			{Addr: 0x100, Data: []byte{5}},
		},
	}
	var out bytes.Buffer
	Segments(&out, img, nil)
	contains(t, out.String(),
		"S-record image:",
		`"HDR"`,
		"0x00000030",
		"0x00000010", "0x00000014",
		"0x00000100",
	)
}
