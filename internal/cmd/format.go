package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mozilla-ai/mcpfleet/internal/cmd/output"
)

// OutputFormat is the format a command renders its results in.
type OutputFormat string

type OutputFormats []OutputFormat

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

// indentSpaces is used by the structured output formats.
const indentSpaces = 2

func AllowedOutputFormats() OutputFormats {
	formats := []OutputFormat{
		FormatJSON,
		FormatText,
		FormatYAML,
	}

	slices.Sort(formats)

	return formats
}

// FormatHandler returns the output handler for the format.
// The printer is only used for text output.
func FormatHandler[T any](w io.Writer, format OutputFormat, printer output.Printer[T]) (output.Handler[T], error) {
	switch format {
	case FormatJSON:
		return output.NewJSONHandler[T](w, indentSpaces), nil
	case FormatYAML:
		return output.NewYAMLHandler[T](w, indentSpaces), nil
	case FormatText:
		if printer == nil {
			return nil, fmt.Errorf("text output requires a printer")
		}
		return output.NewTextHandler[T](w, printer), nil
	default:
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
}

// String implements fmt.Stringer for a collection of output formats,
// converting them to a comma separated string.
func (f *OutputFormats) String() string {
	efs := *f
	out := make([]string, len(efs))
	for i := range efs {
		out[i] = efs[i].String()
	}
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer for an output format.
// This is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) String() string {
	return strings.ToLower(string(*f))
}

// Set is used by Cobra to set the output format value from a string.
// This is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	allowed := AllowedOutputFormats()

	if slices.Contains(allowed, OutputFormat(v)) {
		*f = OutputFormat(v)
		return nil
	}

	return fmt.Errorf("invalid format '%s', must be one of %v", v, allowed.String())
}

// Type is used by Cobra to get the 'type' of an output format for display purposes.
// This is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) Type() string {
	return "format"
}
