package dump

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/objtools/objio/srec"
)

// Segments prints an S-record image summary and one row per
// contiguous data segment.
func Segments(w io.Writer, img *srec.Image, cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	title(w, cfg, "S-record image:")
	if img.Header != "" {
		fmt.Fprintf(w, "%-28s%q\n", "Header:", img.Header)
	}
	fmt.Fprintf(w, "%-28s%s\n", "Entry-Point:", hex32(img.Entry))
	fmt.Fprintf(w, "%-28s%d\n", "Data records:", img.Records)
	fmt.Fprintf(w, "%-28s%d\n", "Image bytes:", img.Size())

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Start", "End", "Size"})
	for _, seg := range img.Segments {
		end := seg.Addr + uint32(len(seg.Data))
		table.Append([]string{hex32(seg.Addr), hex32(end), fmt.Sprintf("%d", len(seg.Data))})
	}
	table.Render()
}
