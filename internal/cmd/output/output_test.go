package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// fakePrinter records calls and fails on a configured item.
type fakePrinter struct {
	headerCount int
	footerCount int
	items       []sample
	errOnID     int
}

func (p *fakePrinter) Header(w io.Writer, count int) {
	p.headerCount = count
	_, _ = io.WriteString(w, "HEADER\n")
}

func (p *fakePrinter) SetHeader(WriteFunc[sample]) {}

func (p *fakePrinter) Item(w io.Writer, s sample) error {
	p.items = append(p.items, s)
	_, _ = fmt.Fprintf(w, "ITEM:%d:%s\n", s.ID, s.Name)
	if s.ID == p.errOnID {
		return errors.New("item error")
	}
	return nil
}

func (p *fakePrinter) Footer(w io.Writer, count int) {
	p.footerCount = count
	_, _ = io.WriteString(w, "FOOTER\n")
}

func (p *fakePrinter) SetFooter(WriteFunc[sample]) {}

func TestHandlers_Writer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	require.Equal(t, buf, NewJSONHandler[sample](buf, 2).Writer())
	require.Equal(t, buf, NewYAMLHandler[sample](buf, 2).Writer())
	require.Equal(t, buf, NewTextHandler[sample](buf, &fakePrinter{}).Writer())
}

func TestJSONHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		indent int
		handle func(h Handler[sample]) error
		want   string
	}{
		{
			name:   "results",
			indent: 2,
			handle: func(h Handler[sample]) error {
				return h.HandleResults(sample{ID: 1, Name: "time"}, sample{ID: 2, Name: "git"})
			},
			want: "{\n  \"results\": [\n    {\n      \"id\": 1,\n      \"name\": \"time\"\n    },\n" +
				"    {\n      \"id\": 2,\n      \"name\": \"git\"\n    }\n  ]\n}\n",
		},
		{
			name:   "no results is compact null",
			indent: 0,
			handle: func(h Handler[sample]) error { return h.HandleResults() },
			want:   "{\"results\":null}\n",
		},
		{
			name:   "single result",
			indent: 0,
			handle: func(h Handler[sample]) error { return h.HandleResult(sample{ID: 7, Name: "x"}) },
			want:   "{\"result\":{\"id\":7,\"name\":\"x\"}}\n",
		},
		{
			name:   "error",
			indent: 4,
			handle: func(h Handler[sample]) error { return h.HandleError(errors.New("something went wrong")) },
			want:   "{\n    \"error\": \"something went wrong\"\n}\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			require.NoError(t, tc.handle(NewJSONHandler[sample](buf, tc.indent)))
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestYAMLHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		handle func(h Handler[sample]) error
		want   string
	}{
		{
			name: "results",
			handle: func(h Handler[sample]) error {
				return h.HandleResults(sample{ID: 1, Name: "time"}, sample{ID: 2, Name: "git"})
			},
			want: "results:\n  - id: 1\n    name: time\n  - id: 2\n    name: git\n",
		},
		{
			name:   "single result",
			handle: func(h Handler[sample]) error { return h.HandleResult(sample{ID: 7, Name: "x"}) },
			want:   "result:\n  id: 7\n  name: x\n",
		},
		{
			name:   "error",
			handle: func(h Handler[sample]) error { return h.HandleError(errors.New("boom")) },
			want:   "error: boom\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			require.NoError(t, tc.handle(NewYAMLHandler[sample](buf, 2)))
			require.Equal(t, tc.want, buf.String())
		})
	}
}

func TestTextHandler_HandleResults(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &fakePrinter{}
	h := NewTextHandler[sample](buf, p)

	require.NoError(t, h.HandleResults(sample{ID: 1, Name: "a"}, sample{ID: 2, Name: "b"}))
	require.Equal(t, "HEADER\nITEM:1:a\nITEM:2:b\nFOOTER\n", buf.String())
	require.Equal(t, 2, p.headerCount)
	require.Equal(t, 2, p.footerCount)
}

func TestTextHandler_HandleResult(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &fakePrinter{}
	h := NewTextHandler[sample](buf, p)

	require.NoError(t, h.HandleResult(sample{ID: 3, Name: "c"}))
	require.Equal(t, "HEADER\nITEM:3:c\nFOOTER\n", buf.String())
	require.Equal(t, 1, p.headerCount)
}

func TestTextHandler_Empty(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &fakePrinter{}
	h := NewTextHandler[sample](buf, p)

	require.NoError(t, h.HandleResults())
	require.Equal(t, "No items found\n", buf.String())
	require.Zero(t, p.headerCount)
}

func TestTextHandler_ItemErrorStopsOutput(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	p := &fakePrinter{errOnID: 2}
	h := NewTextHandler[sample](buf, p)

	err := h.HandleResults(sample{ID: 1}, sample{ID: 2}, sample{ID: 3})
	require.EqualError(t, err, "item error")
	require.Len(t, p.items, 2)
	require.Zero(t, p.footerCount)
}

func TestTextHandler_HandleError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("oops")
	h := NewTextHandler[sample](&bytes.Buffer{}, &fakePrinter{})
	require.Equal(t, wantErr, h.HandleError(wantErr))
}
