package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/objtools/objio/cli"
	"github.com/objtools/objio/dump"
	"github.com/objtools/objio/elf"
)

var flags cli.Flags

func main() {
	var (
		syms     bool
		demangle bool
		sortSyms bool
		extract  string
		outPath  string
	)
	cmd := &cobra.Command{
		Use:   "elfinfo <file>",
		Short: "decode and display 32-bit ELF object files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &dump.Config{
				Color:    flags.UseColor(),
				Demangle: demangle,
				SortSyms: sortSyms,
			}
			return run(args[0], cfg, syms, extract, outPath)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(cmd)
	cmd.Flags().BoolVarP(&syms, "syms", "s", false, "display symbol tables")
	cmd.Flags().BoolVar(&demangle, "demangle", false, "demangle C++ symbol names")
	cmd.Flags().BoolVar(&sortSyms, "sort", false, "sort symbols by name")
	cmd.Flags().StringVarP(&extract, "extract", "x", "", "write the named section's payload to a file instead of dumping")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output path for --extract (default <section>.bin)")

	if err := cmd.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(1)
	}
}

func run(path string, cfg *dump.Config, syms bool, extract, outPath string) error {
	logger := cli.NewLogger(flags.Verbose)
	f, err := elf.Open(path, &elf.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.LoadProgHeaders(); err != nil {
		return err
	}
	if err := f.LoadSectHeaders(); err != nil {
		return err
	}
	if err := f.LoadPayloads(); err != nil {
		return err
	}

	if extract != "" {
		return extractSection(f, logger, extract, outPath)
	}

	w := os.Stdout
	dump.Header(w, f, cfg)
	fmt.Fprintln(w)
	if err := dump.ProgTable(w, f, cfg); err != nil {
		return err
	}
	fmt.Fprintln(w)
	if err := dump.SectTable(w, f, cfg); err != nil {
		return err
	}
	if syms {
		fmt.Fprintln(w)
		if err := dump.Symbols(w, f, cfg); err != nil {
			return err
		}
	}
	return nil
}

func extractSection(f *elf.File, logger log.Logger, name, outPath string) error {
	for i := 0; i < f.NumSect(); i++ {
		sname, err := f.SectionName(i)
		if err != nil || sname != name {
			continue
		}
		payload, err := f.Payload(i)
		if err != nil {
			return err
		}
		if payload == nil {
			return errors.Errorf("section %s has no file payload", name)
		}
		if outPath == "" {
			outPath = strings.TrimPrefix(name, ".") + ".bin"
		}
		if err := os.WriteFile(outPath, payload, 0644); err != nil {
			return errors.Wrap(err, "write payload")
		}
		level.Info(logger).Log("msg", "wrote section payload",
			"section", name, "path", outPath, "bytes", len(payload))
		return nil
	}
	return errors.Errorf("no section named %s", name)
}
