package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/planka/pkg/model"
	"github.com/mesh-intelligence/planka/pkg/types"
)

// printer renders records in the selected output format.
type printer struct {
	w      io.Writer
	format string
	fields []string
}

func newPrinter(w io.Writer, fields []string) (*printer, error) {
	switch flags.output {
	case outputText, outputJSON, outputYAML:
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", flags.output)
	}
	return &printer{w: w, format: flags.output, fields: fields}, nil
}

// project keeps only the selected fields. Without a selection the record is
// returned as is.
func (p *printer) project(rec types.Record) types.Record {
	if len(p.fields) == 0 {
		return rec
	}
	out := make(types.Record, len(p.fields))
	for _, f := range p.fields {
		out[f] = rec[f]
	}
	return out
}

// Record prints a single record.
func (p *printer) Record(rec types.Record) error {
	rec = p.project(rec)
	switch p.format {
	case outputJSON:
		return p.json(rec)
	case outputYAML:
		return p.yaml(rec)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for _, f := range rec.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f, formatValue(rec[f]))
	}
	return tw.Flush()
}

// Collection prints one row or document per entity.
func (p *printer) Collection(c *model.Collection) error {
	recs := make([]types.Record, 0, c.Len())
	for _, e := range c.Entities() {
		recs = append(recs, p.project(e.Snapshot()))
	}
	switch p.format {
	case outputJSON:
		return p.json(recs)
	case outputYAML:
		return p.yaml(recs)
	}

	columns := p.fields
	if len(columns) == 0 {
		columns = []string{types.FieldID, types.FieldName}
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(columns, "\t")))
	for tuple := range c.ExtractFields(columns...) {
		cells := make([]string, len(tuple))
		for i, v := range tuple {
			cells[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case map[string]any, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// parseValue reads a command-line value as a YAML scalar so that numbers,
// booleans and null keep their type. Timestamps stay strings.
func parseValue(text string) any {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return text
	}
	switch t := v.(type) {
	case time.Time:
		return text
	case map[string]any, []any:
		return t
	case nil:
		if strings.TrimSpace(text) == "" {
			return ""
		}
		return nil
	default:
		return t
	}
}

// parseAssignments splits field=value arguments.
func parseAssignments(args []string) (types.Record, error) {
	out := types.Record{}
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		out[field] = parseValue(value)
	}
	return out, nil
}
