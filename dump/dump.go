// Package dump renders decoded object files as text for terminals.
package dump

import (
	"fmt"
	"io"

	"github.com/mgutz/ansi"
	"github.com/olekukonko/tablewriter"

	"github.com/objtools/objio/elf"
)

// Config carries the rendering options shared by the dump functions.
type Config struct {
	Color    bool
	Demangle bool
	SortSyms bool
}

var titleColor = ansi.ColorCode("cyan+b")

const rule = "==============================================================================="

func paint(s, color string, on bool) string {
	if !on {
		return s
	}
	return color + s + ansi.Reset
}

func title(w io.Writer, cfg *Config, text string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, paint(text, titleColor, cfg.Color))
	fmt.Fprintln(w, rule)
}

func hex32(v uint32) string { return fmt.Sprintf("0x%08x", v) }

// Header prints the decoded file header, one labeled field per line.
func Header(w io.Writer, f *elf.File, cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	hdr := f.Header()
	title(w, cfg, "ELF file header:")
	field := func(label, value string) {
		fmt.Fprintf(w, "%-28s%s\n", label, value)
	}
	version := "Current."
	if hdr.Version == elf.EV_NONE {
		version = "Invalid."
	}
	field("File-Type:", fmt.Sprintf("0x%04x - %s", hdr.Type, elf.TypeName(elf.Type(hdr.Type))))
	field("Machine-ID:", fmt.Sprintf("0x%04x - %s", hdr.Machine, f.MachineName()))
	field("Version:", fmt.Sprintf("%s - %s", hex32(hdr.Version), version))
	field("Entry-Point:", hex32(hdr.Entry))
	field("Start of program headers:", hex32(hdr.Phoff))
	field("Start of section headers:", hex32(hdr.Shoff))
	field("Flags:", hex32(hdr.Flags))
	field("PHT entry size:", hex32(uint32(hdr.Phentsize)))
	field("Number of PHT entries:", hex32(uint32(hdr.Phnum)))
	field("SHT entry size:", hex32(uint32(hdr.Shentsize)))
	field("Number of SHT entries:", hex32(uint32(hdr.Shnum)))
	field("String table index:", hex32(uint32(hdr.Shstrndx)))
	field("Class:", fmt.Sprintf("%s - %s", hex32(uint32(hdr.Class())), elf.ClassName(hdr.Class())))
	field("Endianess:", fmt.Sprintf("%s - %s", hex32(uint32(hdr.Data())), elf.DataName(hdr.Data())))
	field("ELF-ABI:", hex32(uint32(hdr.OSABI())))
	field("ELF-ABI-Version:", hex32(uint32(hdr.ABIVersion())))
}

func progFlags(flags uint32) string {
	b := [3]byte{' ', ' ', ' '}
	if flags&elf.PF_R != 0 {
		b[0] = 'R'
	}
	if flags&elf.PF_W != 0 {
		b[1] = 'W'
	}
	if flags&elf.PF_X != 0 {
		b[2] = 'X'
	}
	return string(b[:])
}

func sectFlags(flags uint32) string {
	b := [3]byte{' ', ' ', ' '}
	if flags&elf.SHF_ALLOC != 0 {
		b[0] = 'A'
	}
	if flags&elf.SHF_WRITE != 0 {
		b[1] = 'W'
	}
	if flags&elf.SHF_EXECINSTR != 0 {
		b[2] = 'X'
	}
	return string(b[:])
}

// ProgTable prints the program header table, one segment per row.
func ProgTable(w io.Writer, f *elf.File, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	title(w, cfg, "Program header table:")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Nr", "Type", "Offset", "VirtAddr", "PhysAddr", "FileSiz", "MemSiz", "Flags", "Align"})
	for i := 0; i < f.NumProg(); i++ {
		ph, err := f.ProgHeader(i)
		if err != nil {
			return err
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			elf.ProgTypeName(elf.ProgType(ph.Type)),
			hex32(ph.Off),
			hex32(ph.Vaddr),
			hex32(ph.Paddr),
			hex32(ph.Filesz),
			hex32(ph.Memsz),
			progFlags(ph.Flags),
			fmt.Sprintf("%#x", ph.Align),
		})
	}
	table.Render()
	return nil
}

// SectTable prints the section header table, one section per row.
// Sections whose names cannot be resolved get an empty name cell.
func SectTable(w io.Writer, f *elf.File, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	title(w, cfg, "Section header table:")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Nr", "Name", "Type", "Addr", "Offset", "Size", "ES", "Flags", "Lk", "Inf", "Al"})
	for i := 0; i < f.NumSect(); i++ {
		sh, err := f.SectHeader(i)
		if err != nil {
			return err
		}
		name, err := f.SectionName(i)
		if err != nil {
			name = ""
		}
		table.Append([]string{
			fmt.Sprintf("%d", i),
			name,
			elf.SectionTypeName(elf.SectionType(sh.Type)),
			hex32(sh.Addr),
			hex32(sh.Off),
			hex32(sh.Size),
			fmt.Sprintf("%#x", sh.Entsize),
			sectFlags(sh.Flags),
			fmt.Sprintf("%d", sh.Link),
			fmt.Sprintf("%d", sh.Info),
			fmt.Sprintf("%#x", sh.Addralign),
		})
	}
	table.Render()
	return nil
}
