package elf

import "fmt"

// machineNames holds one entry per EM code 0..82, shifted up by one;
// slot 0 is the fallback for anything out of range.
var machineNames = []string{
	"Unknown machine.",
	"No machine.",
	"AT&T WE 32100.",
	"SPARC.",
	"Intel 80386.",
	"Motorola 68000.",
	"Motorola 88000.",
	"Reserved for future use.",
	"Intel 80860.",
	"MIPS I Architecture.",
	"IBM System/370 Processor.",
	"MIPS RS3000 Little-endian.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Hewlett-Packard PA-RISC.",
	"Reserved for future use.",
	"Fujitsu VPP500.",
	"Enhanced instruction set SPARC.",
	"Intel 80960.",
	"PowerPC.",
	"64-bit PowerPC.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"NEC V800.",
	"Fujitsu FR20.",
	"TRW RH-32.",
	"Motorola RCE.",
	"Advanced RISC Machines ARM.",
	"Digital Alpha.",
	"Hitachi SH.",
	"SPARC Version 9.",
	"Siemens Tricore embedded processor.",
	"Argonaut RISC Core, Argonaut Technologies Inc.",
	"Hitachi H8/300.",
	"Hitachi H8/300H.",
	"Hitachi H8S.",
	"Hitachi H8/500.",
	"Intel IA-64 processor architecture.",
	"Stanford MIPS-X.",
	"Motorola ColdFire.",
	"Motorola M68HC12.",
	"Fujitsu MMA Multimedia Accelerator.",
	"Siemens PCP.",
	"Sony nCPU embedded RISC processor.",
	"Denso NDR1 microprocessor.",
	"Motorola Star*Core processor.",
	"Toyota ME16 processor. ",
	"STMicroelectronics ST100 processor.",
	"Advanced Logic Corp. TinyJ embedded processor family.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Reserved for future use.",
	"Siemens FX66 microcontroller.",
	"STMicroelectronics ST9+ 8/16 bit microcontroller.",
	"STMicroelectronics ST7 8-bit microcontroller.",
	"Motorola MC68HC16 Microcontroller.",
	"Motorola MC68HC11 Microcontroller.",
	"Motorola MC68HC08 Microcontroller.",
	"Motorola MC68HC05 Microcontroller.",
	"Silicon Graphics SVx.",
	"STMicroelectronics ST19 8-bit microcontroller.",
	"Digital VAX.",
	"Axis Communications 32-bit embedded processor.",
	"Infineon Technologies 32-bit embedded processor.",
	"Element 14 64-bit DSP Processor.",
	"LSI Logic 16-bit DSP Processor.",
	"Donald Knuth's educational 64-bit processor.",
	"Harvard University machine-independent object files .",
	"SiTera Prism.",
}

// MachineName returns the descriptive name for a machine code. Codes
// outside the known range yield the distinguished unknown entry.
func MachineName(m Machine) string {
	i := int(m)
	if i >= len(machineNames)-1 {
		i = 0
	} else {
		i++
	}
	return machineNames[i]
}

var typeNames = []string{
	"Processor-specific.",
	"No file type.",
	"Relocatable file.",
	"Executable file.",
	"Shared object file.",
	"Core file.",
}

// TypeName returns the descriptive name for an object file type.
// Anything above ET_CORE renders as processor-specific.
func TypeName(t Type) string {
	if t > ET_CORE {
		return typeNames[0]
	}
	return typeNames[t+1]
}

var sectionTypeNames = []string{
	"NULL", "PROGBITS", "SYMTAB", "STRTAB", "RELA", "HASH",
	"DYNAMIC", "NOTE", "NOBITS", "REL", "SHLIB", "DYNSYM",
}

// SectionTypeName returns the short name for a section type.
func SectionTypeName(t SectionType) string {
	if t <= SHT_DYNSYM {
		return sectionTypeNames[t]
	}
	switch t {
	case SHT_LOPROC:
		return "LOPROC"
	case SHT_HIPROC:
		return "HIPROC"
	case SHT_LOUSER:
		return "LOUSER"
	case SHT_HIUSER:
		return "HIUSER"
	}
	return "UNKNOWN"
}

var progTypeNames = []string{
	"NULL", "LOAD", "DYNAMIC", "INTERP", "NOTE", "SHLIB", "PHDR",
}

// ProgTypeName returns the short name for a segment type.
func ProgTypeName(t ProgType) string {
	if t <= PT_PHDR {
		return progTypeNames[t]
	}
	switch t {
	case PT_LOPROC:
		return "LOPROC"
	case PT_HIPROC:
		return "HIPROC"
	}
	return "UNKNOWN"
}

// ClassName returns the descriptive name for an ident class byte.
func ClassName(c Class) string {
	switch c {
	case ELFCLASS32:
		return "32-bit objects."
	case ELFCLASS64:
		return "64-bit objects."
	}
	return "Invalid class."
}

// DataName returns the descriptive name for an ident encoding byte.
func DataName(d Data) string {
	switch d {
	case ELFDATA2LSB:
		return "LITTLE"
	case ELFDATA2MSB:
		return "BIG"
	}
	return "Invalid data encoding"
}

// BindName returns the name for a symbol binding.
func BindName(b SymBind) string {
	switch b {
	case STB_LOCAL:
		return "LOCAL"
	case STB_GLOBAL:
		return "GLOBAL"
	case STB_WEAK:
		return "WEAK"
	}
	return fmt.Sprintf("<%d>", b)
}

// SymTypeName returns the name for a symbol type.
func SymTypeName(t SymType) string {
	switch t {
	case STT_NOTYPE:
		return "NOTYPE"
	case STT_OBJECT:
		return "OBJECT"
	case STT_FUNC:
		return "FUNC"
	case STT_SECTION:
		return "SECTION"
	case STT_FILE:
		return "FILE"
	}
	return fmt.Sprintf("<%d>", t)
}

// ShndxName renders a symbol's section index, naming the reserved
// values the way readers expect.
func ShndxName(n uint16) string {
	switch n {
	case SHN_UNDEF:
		return "UND"
	case SHN_ABS:
		return "ABS"
	case SHN_COMMON:
		return "COM"
	}
	if n >= SHN_LORESERVE {
		return fmt.Sprintf("RSV[%#x]", n)
	}
	return fmt.Sprintf("%d", n)
}
