package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	OutputAuto  = "auto"
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// previewRunes bounds chunk text in table output.
const previewRunes = 80

// resolveOutput maps "auto" to table on a terminal and JSON otherwise.
func resolveOutput(format string, w io.Writer) (string, error) {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return format, nil
	case "", OutputAuto:
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return OutputTable, nil
		}
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	return enc.Close()
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// preview flattens whitespace and truncates to n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
