// Package report renders build reports and measures compressed output sizes.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"go.trai.ch/robuild/internal/core/domain"
	"go.trai.ch/robuild/internal/core/ports"
)

var _ ports.ReportRenderer = (*Renderer)(nil)

// maxListed caps the exports and dependencies printed per row.
const maxListed = 4

// Renderer prints a build report as a table.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes one row per chunk followed by a totals line.
func (r *Renderer) Render(w io.Writer, report *domain.BuildReport) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Entry", "Format", "File", "Size", "Gzip", "Exports", "Dependencies"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	var total, totalGzip int64
	for _, c := range report.Chunks {
		total += c.Size
		totalGzip += c.GzipSize
		table.Append([]string{
			c.Entry,
			string(c.Format),
			c.File,
			humanize.Bytes(uint64(max(c.Size, 0))),
			humanize.Bytes(uint64(max(c.GzipSize, 0))),
			summarize(c.Exports),
			summarize(c.Dependencies),
		})
	}
	table.Render()

	name := report.Package
	if name == "" {
		name = report.RootDir
	}
	_, err := fmt.Fprintf(w, "\n%s: %d files, %s (%s gzip) in %s\n",
		name,
		len(report.Chunks),
		humanize.Bytes(uint64(max(total, 0))),
		humanize.Bytes(uint64(max(totalGzip, 0))),
		report.Duration().Round(time.Millisecond),
	)
	return err
}

func summarize(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	if len(items) <= maxListed {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(items[:maxListed], ", "), len(items)-maxListed)
}
