package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mozilla-ai/mcpfleet/internal/cmd/output"
	"github.com/mozilla-ai/mcpfleet/internal/config"
)

var _ output.Printer[config.Config] = (*ConfigPrinter)(nil)

const unset = "(default)"

// ConfigPrinter writes a whole configuration file as text, daemon settings first.
type ConfigPrinter struct {
	headerFunc output.WriteFunc[config.Config]
	footerFunc output.WriteFunc[config.Config]
	servers    *ServerPrinter
}

func NewConfigPrinter() *ConfigPrinter {
	servers := NewServerPrinter()
	servers.SetHeader(nil)

	return &ConfigPrinter{servers: servers}
}

func (p *ConfigPrinter) Header(w io.Writer, count int) {
	if p.headerFunc != nil {
		p.headerFunc(w, count)
	}
}

func (p *ConfigPrinter) SetHeader(fn output.WriteFunc[config.Config]) {
	p.headerFunc = fn
}

func (p *ConfigPrinter) Footer(w io.Writer, count int) {
	if p.footerFunc != nil {
		p.footerFunc(w, count)
	}
}

func (p *ConfigPrinter) SetFooter(fn output.WriteFunc[config.Config]) {
	p.footerFunc = fn
}

func (p *ConfigPrinter) Item(w io.Writer, cfg config.Config) error {
	if path := cfg.Path(); path != "" {
		_, _ = fmt.Fprintf(w, "Config file: %s\n", path)
	}

	schema := cfg.SchemaPath()
	if schema == "" {
		schema = "(none)"
	}
	_, _ = fmt.Fprintf(w, "Metadata schema: %s\n\n", schema)

	d := cfg.Daemon
	if d == nil {
		d = &config.DaemonConfig{}
	}

	_, _ = fmt.Fprintln(w, "Daemon:")
	_, _ = fmt.Fprintf(w, "  Address: %s\n", strOrUnset(d.Addr))
	_, _ = fmt.Fprintf(w, "  Probe timeout: %s\n", durationOrUnset(d.ProbeTimeout))
	_, _ = fmt.Fprintf(w, "  Forward timeout: %s\n", durationOrUnset(d.ForwardTimeout))
	_, _ = fmt.Fprintf(w, "  Health check interval: %s\n", durationOrUnset(d.HealthCheckInterval))
	_, _ = fmt.Fprintf(w, "  Probe concurrency: %s\n", intOrUnset(d.ProbeConcurrency))
	_, _ = fmt.Fprintf(w, "  Discovery concurrency: %s\n", intOrUnset(d.DiscoveryConcurrency))
	_, _ = fmt.Fprintf(w, "  Shutdown timeout: %s\n", durationOrUnset(d.ShutdownTimeout))

	if d.CORS != nil {
		_, _ = fmt.Fprintf(w, "  CORS enabled: %t\n", d.CORS.EnableOrDefault(false))
		if len(d.CORS.Origins) > 0 {
			_, _ = fmt.Fprintf(w, "  CORS origins: %s\n", strings.Join(d.CORS.Origins, ", "))
		}
	}

	_, _ = fmt.Fprintf(w, "\nServers (%d):\n", len(cfg.Servers))
	if len(cfg.Servers) == 0 {
		_, _ = fmt.Fprintln(w, "  (No servers configured)")
		return nil
	}

	for _, s := range cfg.Servers {
		if err := p.servers.Item(w, s); err != nil {
			return err
		}
	}

	return nil
}

func strOrUnset(v *string) string {
	if v == nil {
		return unset
	}
	return *v
}

func durationOrUnset(v *config.Duration) string {
	if v == nil {
		return unset
	}
	return v.String()
}

func intOrUnset(v *int) string {
	if v == nil {
		return unset
	}
	return strconv.Itoa(*v)
}
