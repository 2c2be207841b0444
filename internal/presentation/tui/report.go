package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"golang.org/x/term"
)

// Format selects how a Report is written.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Report is a result that can be shown as plain text or markdown.
// JSON output marshals the report value itself.
type Report interface {
	Plain() string
	Markdown() string
}

// DetectFormat picks JSON when asked, markdown on terminals and plain text otherwise.
func DetectFormat(out io.Writer, asJSON bool) Format {
	if asJSON {
		return FormatJSON
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return FormatMarkdown
	}
	return FormatPlain
}

// Printer writes reports in a fixed format.
type Printer struct {
	Out    io.Writer
	Format Format
	Render func(string) (string, error)
}

// NewPrinter creates a Printer for out, rendering markdown with glamour.
func NewPrinter(out io.Writer, asJSON bool) *Printer {
	p := &Printer{Out: out, Format: DetectFormat(out, asJSON)}
	if p.Format == FormatMarkdown {
		p.Render = NewRenderer()
	}
	return p
}

// Print writes r to the printer's output.
func (p *Printer) Print(r Report) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatMarkdown:
		md := r.Markdown()
		if p.Render != nil {
			rendered, err := p.Render(md)
			if err != nil {
				return fmt.Errorf("render markdown: %w", err)
			}
			md = rendered
		}
		_, err := io.WriteString(p.Out, md)
		return err
	default:
		_, err := io.WriteString(p.Out, r.Plain())
		return err
	}
}

// MemoryReport presents system memory usage in GiB.
type MemoryReport struct {
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
	UsedGB      float64 `json:"used_gb"`
	UsedPercent float64 `json:"used_percent"`
}

func NewMemoryReport(stats domain.MemoryStats) MemoryReport {
	return MemoryReport{
		TotalGB:     stats.TotalGB(),
		AvailableGB: stats.AvailableGB(),
		UsedGB:      stats.UsedGB(),
		UsedPercent: stats.UsedPercent,
	}
}

func (m MemoryReport) percent() string {
	return strconv.FormatFloat(m.UsedPercent, 'f', -1, 64) + "%"
}

func (m MemoryReport) Plain() string {
	var b strings.Builder
	b.WriteString("RAM Information:\n")
	fmt.Fprintf(&b, "Total RAM      : %.2f GB\n", m.TotalGB)
	fmt.Fprintf(&b, "Available RAM  : %.2f GB\n", m.AvailableGB)
	fmt.Fprintf(&b, "Used RAM       : %.2f GB\n", m.UsedGB)
	fmt.Fprintf(&b, "RAM Usage      : %s\n", m.percent())
	return b.String()
}

func (m MemoryReport) Markdown() string {
	var b strings.Builder
	b.WriteString("# RAM Information\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total RAM | %.2f GB |\n", m.TotalGB)
	fmt.Fprintf(&b, "| Available RAM | %.2f GB |\n", m.AvailableGB)
	fmt.Fprintf(&b, "| Used RAM | %.2f GB |\n", m.UsedGB)
	fmt.Fprintf(&b, "| RAM Usage | %s |\n", m.percent())
	return b.String()
}

// SearchReport lists web search results in rank order.
type SearchReport struct {
	Query   string   `json:"query"`
	Results []string `json:"results"`
	SavedTo string   `json:"saved_to,omitempty"`
}

func (s SearchReport) Plain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d search results for %q:\n\n", len(s.Results), s.Query)
	for i, link := range s.Results {
		fmt.Fprintf(&b, "%d. %s\n", i+1, link)
	}
	if len(s.Results) == 0 {
		b.WriteString("No results found.\n")
	}
	if s.SavedTo != "" {
		fmt.Fprintf(&b, "\nResults saved to %s\n", s.SavedTo)
	}
	return b.String()
}

func (s SearchReport) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Search: %s\n\n", s.Query)
	for i, link := range s.Results {
		fmt.Fprintf(&b, "%d. <%s>\n", i+1, link)
	}
	if len(s.Results) == 0 {
		b.WriteString("_No results found._\n")
	}
	if s.SavedTo != "" {
		fmt.Fprintf(&b, "\nResults saved to `%s`\n", s.SavedTo)
	}
	return b.String()
}

// HistoryReport lists journaled errand runs, newest first.
type HistoryReport struct {
	Records []domain.Record `json:"records"`
}

const historyTimeLayout = "2006-01-02 15:04:05"

func (h HistoryReport) Plain() string {
	if len(h.Records) == 0 {
		return "No errands recorded yet.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-19s  %-10s  %-6s  %10s  %s\n", "STARTED", "ERRAND", "STATUS", "DURATION", "DETAIL")
	for _, r := range h.Records {
		fmt.Fprintf(&b, "%-19s  %-10s  %-6s  %10s  %s\n",
			r.StartedAt.Format(historyTimeLayout),
			r.Errand,
			r.Status,
			r.Duration.Round(time.Millisecond),
			r.Detail,
		)
	}
	return b.String()
}

func (h HistoryReport) Markdown() string {
	if len(h.Records) == 0 {
		return "_No errands recorded yet._\n"
	}
	var b strings.Builder
	b.WriteString("# Errand History\n\n")
	b.WriteString("| Started | Errand | Status | Duration | Detail |\n|---|---|---|---|---|\n")
	for _, r := range h.Records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			r.StartedAt.Format(historyTimeLayout),
			r.Errand,
			r.Status,
			r.Duration.Round(time.Millisecond),
			strings.ReplaceAll(r.Detail, "|", `\|`),
		)
	}
	return b.String()
}
