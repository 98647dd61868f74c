package printer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/mozilla-ai/mcpfleet/internal/cmd/output"
	"github.com/mozilla-ai/mcpfleet/internal/config"
)

var _ output.Printer[config.ServerEntry] = (*ServerPrinter)(nil)

func DefaultServerHeader() output.WriteFunc[config.ServerEntry] {
	return func(w io.Writer, count int) {
		_, _ = fmt.Fprintf(w, "Configured servers (%d):\n\n", count)
	}
}

// ServerPrinter writes configured server entries as indented text.
type ServerPrinter struct {
	headerFunc output.WriteFunc[config.ServerEntry]
	footerFunc output.WriteFunc[config.ServerEntry]
}

func NewServerPrinter() *ServerPrinter {
	return &ServerPrinter{
		headerFunc: DefaultServerHeader(),
	}
}

func (p *ServerPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ServerPrinter) SetHeader(fn output.WriteFunc[config.ServerEntry]) {
	p.headerFunc = fn
}

func (p *ServerPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ServerPrinter) SetFooter(fn output.WriteFunc[config.ServerEntry]) {
	p.footerFunc = fn
}

// Item outputs a single server entry, omitting empty optional fields.
func (p *ServerPrinter) Item(w io.Writer, entry config.ServerEntry) error {
	_, _ = fmt.Fprintf(w, "  %s\n", entry.Name)
	_, _ = fmt.Fprintf(w, "    Address: %s\n", entry.BaseAddress)

	if strings.TrimSpace(entry.Description) != "" {
		_, _ = fmt.Fprintf(w, "    Description: %s\n", entry.Description)
	}

	if strings.TrimSpace(entry.Version) != "" {
		_, _ = fmt.Fprintf(w, "    Version: %s\n", entry.Version)
	}

	if len(entry.Capabilities) > 0 {
		_, _ = fmt.Fprintf(w, "    Capabilities: %s\n", strings.Join(entry.Capabilities, ", "))
	}

	if len(entry.Metadata) > 0 {
		keys := slices.Sorted(maps.Keys(entry.Metadata))
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Metadata[k])
		}
		_, _ = fmt.Fprintf(w, "    Metadata: %s\n", strings.Join(pairs, ", "))
	}

	return nil
}
