// Package main prints the taskboard light and dark palettes side by side.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/evanschultz/taskboard/internal/theme"
)

func main() {
	if err := render(os.Stdout, theme.All()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// render writes the swatch table and a sample row per palette.
func render(w io.Writer, palettes []theme.Palette) error {
	if len(palettes) == 0 {
		return fmt.Errorf("no palettes to render")
	}
	if _, err := fmt.Fprintln(w, "=== TASKBOARD PALETTES ==="); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, swatchTable(palettes).Render()); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\n=== SAMPLE ROWS ==="); err != nil {
		return err
	}
	for _, p := range palettes {
		if _, err := fmt.Fprintln(w, sampleRow(p)); err != nil {
			return err
		}
	}
	return nil
}

// swatchTable lists every named color with one hex and sample column per palette.
func swatchTable(palettes []theme.Palette) *table.Table {
	headers := []string{"Color"}
	for _, p := range palettes {
		headers = append(headers, p.Name, "Sample")
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(palettes[0].Accent))).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	rows := len(palettes[0].Swatches())
	for idx := 0; idx < rows; idx++ {
		row := []string{palettes[0].Swatches()[idx][0]}
		for _, p := range palettes {
			hex := p.Swatches()[idx][1]
			sample := lipgloss.NewStyle().
				Background(lipgloss.Color(hex)).
				Foreground(lipgloss.Color(p.Foreground)).
				Width(10).
				Align(lipgloss.Center).
				Render(hex)
			row = append(row, hex, sample)
		}
		t.Row(row...)
	}
	return t
}

// sampleRow renders one open and one done task the way the board draws them.
func sampleRow(p theme.Palette) string {
	base := lipgloss.NewStyle().Background(lipgloss.Color(p.Background)).Foreground(lipgloss.Color(p.Foreground))
	badge := lipgloss.NewStyle().Background(lipgloss.Color(p.Badge)).Foreground(lipgloss.Color(p.Foreground)).Padding(0, 1)
	done := lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color(p.Muted))
	check := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success))
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent)).Width(8)

	open := "[ ] " + "write report" + " " + badge.Render("work")
	closed := check.Render("[x]") + " " + done.Render("buy milk") + " " + badge.Render("life")
	return label.Render(p.Name) + base.Padding(0, 1).Render(open+"   "+closed)
}
