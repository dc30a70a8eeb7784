// Package elf decodes 32-bit ELF object files: the file header, the
// program and section header tables, section payloads, and symbol
// records. Multi-byte fields are normalized to host byte order no
// matter which encoding the file declares.
package elf

import (
	"bytes"
	"io"
)

// Record sizes on the wire. Entry-size fields in a file must agree
// with these before the matching table is decoded.
const (
	HeaderSize        = 52
	ProgHeaderSize    = 32
	SectionHeaderSize = 40
	SymSize           = 16
)

// e_ident byte indexes.
const (
	EI_MAG0       = 0
	EI_MAG1       = 1
	EI_MAG2       = 2
	EI_MAG3       = 3
	EI_CLASS      = 4
	EI_DATA       = 5
	EI_VERSION    = 6
	EI_OSABI      = 7
	EI_ABIVERSION = 8
	EI_PAD        = 9
	EI_NIDENT     = 16
)

var magic = []byte{0x7f, 'E', 'L', 'F'}

// Class is the file class from e_ident[EI_CLASS].
type Class byte

const (
	ELFCLASSNONE Class = 0
	ELFCLASS32   Class = 1
	ELFCLASS64   Class = 2
)

// Data is the data encoding from e_ident[EI_DATA].
type Data byte

const (
	ELFDATANONE Data = 0
	ELFDATA2LSB Data = 1
	ELFDATA2MSB Data = 2
)

// Type is the object file type from e_type.
type Type uint16

const (
	ET_NONE   Type = 0
	ET_REL    Type = 1
	ET_EXEC   Type = 2
	ET_DYN    Type = 3
	ET_CORE   Type = 4
	ET_LOPROC Type = 0xff00
	ET_HIPROC Type = 0xffff
)

// Machine is the architecture from e_machine.
type Machine uint16

const (
	EM_NONE        Machine = 0
	EM_M32         Machine = 1
	EM_SPARC       Machine = 2
	EM_386         Machine = 3
	EM_68K         Machine = 4
	EM_88K         Machine = 5
	EM_860         Machine = 7
	EM_MIPS        Machine = 8
	EM_S370        Machine = 9
	EM_MIPS_RS3_LE Machine = 10
	EM_PARISC      Machine = 15
	EM_VPP500      Machine = 17
	EM_SPARC32PLUS Machine = 18
	EM_960         Machine = 19
	EM_PPC         Machine = 20
	EM_PPC64       Machine = 21
	EM_V800        Machine = 36
	EM_FR20        Machine = 37
	EM_RH32        Machine = 38
	EM_RCE         Machine = 39
	EM_ARM         Machine = 40
	EM_ALPHA       Machine = 41
	EM_SH          Machine = 42
	EM_SPARCV9     Machine = 43
	EM_TRICORE     Machine = 44
	EM_ARC         Machine = 45
	EM_H8_300      Machine = 46
	EM_H8_300H     Machine = 47
	EM_H8S         Machine = 48
	EM_H8_500      Machine = 49
	EM_IA_64       Machine = 50
	EM_MIPS_X      Machine = 51
	EM_COLDFIRE    Machine = 52
	EM_68HC12      Machine = 53
	EM_MMA         Machine = 54
	EM_PCP         Machine = 55
	EM_NCPU        Machine = 56
	EM_NDR1        Machine = 57
	EM_STARCORE    Machine = 58
	EM_ME16        Machine = 59
	EM_ST100       Machine = 60
	EM_TINYJ       Machine = 61
	EM_FX66        Machine = 66
	EM_ST9PLUS     Machine = 67
	EM_ST7         Machine = 68
	EM_68HC16      Machine = 69
	EM_68HC11      Machine = 70
	EM_68HC08      Machine = 71
	EM_68HC05      Machine = 72
	EM_SVX         Machine = 73
	EM_ST19        Machine = 74
	EM_VAX         Machine = 75
	EM_CRIS        Machine = 76
	EM_JAVELIN     Machine = 77
	EM_FIREPATH    Machine = 78
	EM_ZSP         Machine = 79
	EM_MMIX        Machine = 80
	EM_HUANY       Machine = 81
	EM_PRISM       Machine = 82
)

// Version numbers from e_version and e_ident[EI_VERSION].
const (
	EV_NONE    = 0
	EV_CURRENT = 1
)

// SectionType is the section type from sh_type.
type SectionType uint32

const (
	SHT_NULL     SectionType = 0
	SHT_PROGBITS SectionType = 1
	SHT_SYMTAB   SectionType = 2
	SHT_STRTAB   SectionType = 3
	SHT_RELA     SectionType = 4
	SHT_HASH     SectionType = 5
	SHT_DYNAMIC  SectionType = 6
	SHT_NOTE     SectionType = 7
	SHT_NOBITS   SectionType = 8
	SHT_REL      SectionType = 9
	SHT_SHLIB    SectionType = 10
	SHT_DYNSYM   SectionType = 11
	SHT_LOPROC   SectionType = 0x70000000
	SHT_HIPROC   SectionType = 0x7fffffff
	SHT_LOUSER   SectionType = 0x80000000
	SHT_HIUSER   SectionType = 0xffffffff
)

// Section flag bits from sh_flags.
const (
	SHF_WRITE     = 0x1
	SHF_ALLOC     = 0x2
	SHF_EXECINSTR = 0x4
	SHF_MASKPROC  = 0xf0000000
)

// Special section indexes.
const (
	SHN_UNDEF     = 0
	SHN_LORESERVE = 0xff00
	SHN_LOPROC    = 0xff00
	SHN_HIPROC    = 0xff1f
	SHN_ABS       = 0xfff1
	SHN_COMMON    = 0xfff2
	SHN_HIRESERVE = 0xffff
)

// ProgType is the segment type from p_type.
type ProgType uint32

const (
	PT_NULL    ProgType = 0
	PT_LOAD    ProgType = 1
	PT_DYNAMIC ProgType = 2
	PT_INTERP  ProgType = 3
	PT_NOTE    ProgType = 4
	PT_SHLIB   ProgType = 5
	PT_PHDR    ProgType = 6
	PT_LOPROC  ProgType = 0x70000000
	PT_HIPROC  ProgType = 0x7fffffff
)

// Segment flag bits from p_flags.
const (
	PF_X        = 0x1
	PF_W        = 0x2
	PF_R        = 0x4
	PF_MASKPROC = 0xf0000000
)

// SymBind is the symbol binding nibble.
type SymBind byte

const (
	STB_LOCAL  SymBind = 0
	STB_GLOBAL SymBind = 1
	STB_WEAK   SymBind = 2
	STB_LOPROC SymBind = 13
	STB_HIPROC SymBind = 15
)

// SymType is the symbol type nibble.
type SymType byte

const (
	STT_NOTYPE  SymType = 0
	STT_OBJECT  SymType = 1
	STT_FUNC    SymType = 2
	STT_SECTION SymType = 3
	STT_FILE    SymType = 4
	STT_LOPROC  SymType = 13
	STT_HIPROC  SymType = 15
)

const STN_UNDEF = 0

// FileHeader is the 52-byte ELF32 file header.
type FileHeader struct {
	Ident     [EI_NIDENT]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

func (h *FileHeader) Class() Class     { return Class(h.Ident[EI_CLASS]) }
func (h *FileHeader) Data() Data       { return Data(h.Ident[EI_DATA]) }
func (h *FileHeader) OSABI() byte      { return h.Ident[EI_OSABI] }
func (h *FileHeader) ABIVersion() byte { return h.Ident[EI_ABIVERSION] }

// ProgHeader is one 32-byte program header table entry.
type ProgHeader struct {
	Type   uint32
	Off    uint32
	Vaddr  uint32
	Paddr  uint32
	Filesz uint32
	Memsz  uint32
	Flags  uint32
	Align  uint32
}

// SectionHeader is one 40-byte section header table entry. Name is an
// offset into the section name string table, not the string itself.
type SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Off       uint32
	Size      uint32
	Link      uint32
	Info      uint32
	Addralign uint32
	Entsize   uint32
}

// Sym is one 16-byte symbol table entry.
type Sym struct {
	Name  uint32
	Value uint32
	Size  uint32
	Info  byte
	Other byte
	Shndx uint16
}

// Bind extracts the binding from the packed info byte.
func (s *Sym) Bind() SymBind { return SymBind(s.Info >> 4) }

// Type extracts the type from the packed info byte.
func (s *Sym) Type() SymType { return SymType(s.Info & 0xf) }

// SymInfo packs a binding and a type into an info byte. Inverse of
// Bind and Type for any nibble-sized inputs.
func SymInfo(b SymBind, t SymType) byte {
	return byte(b)<<4 | byte(t)&0xf
}

// Rel and Rela are relocation record shapes. They are decoded nowhere
// in this package; relocation processing is out of scope.
type Rel struct {
	Off  uint32
	Info uint32
}

type Rela struct {
	Off    uint32
	Info   uint32
	Addend int32
}

func RSym(info uint32) uint32         { return info >> 8 }
func RType(info uint32) byte          { return byte(info) }
func RInfo(sym uint32, t byte) uint32 { return sym<<8 | uint32(t) }

// Match reports whether r starts with the ELF magic. It does not
// inspect the class byte; Open rejects non-32-bit files separately.
func Match(r io.ReaderAt) bool {
	buf := make([]byte, len(magic))
	if _, err := r.ReadAt(buf, 0); err != nil {
		return false
	}
	return bytes.Equal(buf, magic)
}
