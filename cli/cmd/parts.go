package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"

	"github.com/SkeLLLa/messageformat/message"
)

// Output formats of the parts command.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// defaultIndent is the indentation of JSON and YAML output.
const defaultIndent = 2

// Parts formats a message and prints its parts.
type Parts struct {
	Input `embed:""`

	Output string `default:"table" enum:"table,json,yaml" help:"Output format (${enum})." short:"o"`
	Strict bool   `help:"Fail when the message formats with errors."`
}

// Run executes the parts command.
func (p *Parts) Run(ctx context.Context) error {
	mf, args, err := p.load(ctx)
	if err != nil {
		return err
	}

	var errs message.Collector

	parts := mf.FormatToParts(args, message.WithErrorSink(errs.Add))

	if err := writeParts(ctx, stdout(ctx), p.Output, parts); err != nil {
		return err
	}

	report(ctx, errs.Errors)

	if p.Strict && len(errs.Errors) > 0 {
		return ErrFormatted.Wrap(errs.Err()).With(slog.Int("count", len(errs.Errors)))
	}

	return nil
}

func writeParts(ctx context.Context, w io.Writer, output string, parts []message.Part) error {
	if parts == nil {
		parts = []message.Part{}
	}

	switch output {
	case OutputJSON:
		b, err := json.MarshalIndent(parts, "", strings.Repeat(" ", defaultIndent))
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(b))

		return err

	case OutputYAML:
		b, err := yaml.MarshalContext(ctx, parts, yaml.Indent(defaultIndent), yaml.IndentSequence(true))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(b)

		return err

	case OutputTable, "":
		_, err := fmt.Fprintln(w, partsTable(w, parts))

		return err

	default:
		return ErrOutput.With(slog.String("output", output))
	}
}

// partsTable renders parts as a bordered table, one part per row. Values
// are quoted so that surrounding spaces are visible.
func partsTable(w io.Writer, parts []message.Part) string {
	r := lipgloss.NewRenderer(w)

	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	kinds := map[string]lipgloss.Style{
		message.PartLiteral:  cell.Foreground(lipgloss.Color("8")),
		message.PartFallback: cell.Foreground(lipgloss.Color("1")),
		message.PartMarkup:   cell.Foreground(lipgloss.Color("5")),
	}

	rows := make([][]string, len(parts))
	for i, p := range parts {
		rows[i] = []string{p.Type, string(p.Kind), strconv.Quote(p.Value), p.Source, markupDetail(p)}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("TYPE", "KIND", "VALUE", "SOURCE", "MARKUP").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			if s, ok := kinds[parts[row].Type]; ok {
				return s
			}

			return cell
		}).
		Render()
}

// markupDetail describes a markup part as "open b class=x".
func markupDetail(p message.Part) string {
	if p.Markup == "" {
		return ""
	}

	fields := []string{string(p.Markup), p.Name}
	for _, k := range slices.Sorted(maps.Keys(p.Options)) {
		fields = append(fields, k+"="+p.Options[k])
	}

	return strings.Join(fields, " ")
}
