package main

import (
	"os"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/objtools/objio/cli"
	"github.com/objtools/objio/dump"
	"github.com/objtools/objio/srec"
)

var flags cli.Flags

func main() {
	var extract string
	cmd := &cobra.Command{
		Use:   "srecinfo <file>",
		Short: "decode and display Motorola S-record images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], extract)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(cmd)
	cmd.Flags().StringVarP(&extract, "extract", "x", "", "write the assembled image bytes to a file instead of dumping")

	if err := cmd.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(1)
	}
}

func run(path, extract string) error {
	logger := cli.NewLogger(flags.Verbose)
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer file.Close()

	img, err := srec.ReadImage(file)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "decoded image",
		"records", img.Records, "segments", len(img.Segments), "bytes", img.Size())

	if extract != "" {
		if len(img.Segments) != 1 {
			return errors.Errorf("image has %d segments, cannot write a flat binary", len(img.Segments))
		}
		if err := os.WriteFile(extract, img.Segments[0].Data, 0644); err != nil {
			return errors.Wrap(err, "write image")
		}
		level.Info(logger).Log("msg", "wrote image bytes",
			"path", extract, "bytes", len(img.Segments[0].Data))
		return nil
	}

	cfg := &dump.Config{Color: flags.UseColor()}
	dump.Segments(os.Stdout, img, cfg)
	return nil
}
