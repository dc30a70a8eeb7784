package dump

import (
	"fmt"
	"io"
	"sort"

	"github.com/ianlancetaylor/demangle"
	"github.com/lunixbochs/fvbommel-util/sortorder"
	"github.com/olekukonko/tablewriter"

	"github.com/objtools/objio/elf"
)

type symRow struct {
	index int
	sym   elf.Sym
	name  string
}

type symRows []symRow

func (s symRows) Len() int      { return len(s) }
func (s symRows) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s symRows) Less(i, j int) bool {
	if s[i].name == s[j].name {
		return s[i].index < s[j].index
	}
	return sortorder.NaturalLess(s[i].name, s[j].name)
}

// Symbols prints every symbol table in the file. Payloads must be
// loaded first so names can be resolved through the linked string
// tables.
func Symbols(w io.Writer, f *elf.File, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{}
	}
	for i := 0; i < f.NumSect(); i++ {
		sh, err := f.SectHeader(i)
		if err != nil {
			return err
		}
		t := elf.SectionType(sh.Type)
		if t != elf.SHT_SYMTAB && t != elf.SHT_DYNSYM {
			continue
		}
		if err := symTable(w, f, i, int(sh.Link), cfg); err != nil {
			return err
		}
	}
	return nil
}

func symTable(w io.Writer, f *elf.File, section, strtab int, cfg *Config) error {
	count, err := f.NumSyms(section)
	if err != nil {
		return err
	}
	name, err := f.SectionName(section)
	if err != nil {
		name = fmt.Sprintf("#%d", section)
	}
	title(w, cfg, fmt.Sprintf("Symbol table %s (%d entries):", name, count))

	rows := make(symRows, 0, count)
	for i := 0; i < count; i++ {
		sym, err := f.Sym(section, i)
		if err != nil {
			return err
		}
		symName, err := f.SymbolName(strtab, sym)
		if err != nil {
			return err
		}
		if cfg.Demangle && symName != "" {
			symName = demangle.Filter(symName, demangle.NoClones)
		}
		rows = append(rows, symRow{index: i, sym: sym, name: symName})
	}
	if cfg.SortSyms {
		sort.Sort(rows)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Num", "Value", "Size", "Type", "Bind", "Ndx", "Name"})
	for _, row := range rows {
		table.Append([]string{
			fmt.Sprintf("%d", row.index),
			hex32(row.sym.Value),
			fmt.Sprintf("%d", row.sym.Size),
			elf.SymTypeName(row.sym.Type()),
			elf.BindName(row.sym.Bind()),
			elf.ShndxName(row.sym.Shndx),
			row.name,
		})
	}
	table.Render()
	return nil
}
