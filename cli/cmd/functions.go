package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/SkeLLLa/messageformat/intl"
)

// Functions lists the functions available to messages.
type Functions struct {
	Names bool `help:"Print only the function names, one per line." short:"n"`
}

// Run executes the functions command.
func (f *Functions) Run(ctx context.Context) error {
	w := stdout(ctx)

	funcs := maps.Collect(intl.Registry().All())
	names := slices.Sorted(maps.Keys(funcs))

	if f.Names {
		for _, name := range names {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}

		return nil
	}

	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	header := cell.Bold(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "KIND").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return cell
		})

	for _, name := range names {
		t.Row(name, string(funcs[name].Kind))
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}
