package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smaximov/elixir-sense/internal/render"
	"github.com/smaximov/elixir-sense/pkg/docs"
)

func newExportCommand(opts *options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export MODULE",
		Short: "Export a module's full documentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module := args[0]
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			payload, err := collect(newProvider(cfg), module)
			if docs.Unavailable(err) {
				return fmt.Errorf("no documentation available for %s", module)
			}
			if err != nil {
				return err
			}

			if output == "-" {
				return writeDoc(cmd.OutOrStdout(), format, module, payload)
			}
			f, err := os.Create(filepath.Clean(output))
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			return writeDoc(f, format, module, payload)
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, yaml or html")
	cmd.Flags().StringVar(&output, "output", "-", "Path to output file or '-' for stdout")
	return cmd
}

// exportPayload is the machine-readable dump of every category.
type exportPayload struct {
	Module    *docs.ModuleEntry `json:"module" yaml:"module"`
	Functions []docs.Entry      `json:"functions" yaml:"functions"`
	Types     []docs.Entry      `json:"types" yaml:"types"`
	Callbacks []docs.Entry      `json:"callbacks" yaml:"callbacks"`
}

func collect(provider *docs.Provider, module string) (*exportPayload, error) {
	moduleDoc, err := provider.ModuleDoc(module)
	if err != nil {
		return nil, err
	}
	functions, err := provider.FunctionDocs(module)
	if err != nil {
		return nil, err
	}
	types, err := provider.TypeDocs(module)
	if err != nil {
		return nil, err
	}
	callbacks, err := provider.CallbackDocs(module)
	if err != nil {
		return nil, err
	}
	return &exportPayload{
		Module:    moduleDoc,
		Functions: functions,
		Types:     types,
		Callbacks: callbacks,
	}, nil
}

func writeDoc(w io.Writer, format, module string, payload *exportPayload) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml", "yml":
		data, err := yaml.Marshal(payload)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "html":
		page, err := render.Page(module, htmlSections(payload))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, page)
		return err
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func htmlSections(payload *exportPayload) []render.Section {
	var sections []render.Section
	if text, ok := payload.Module.Doc.Text(); ok {
		sections = append(sections, render.Section{Markdown: text})
	}
	for _, group := range []struct {
		title   string
		entries []docs.Entry
	}{
		{"Functions", payload.Functions},
		{"Types", payload.Types},
		{"Callbacks", payload.Callbacks},
	} {
		for _, entry := range group.entries {
			text, _ := entry.Doc.Text()
			sections = append(sections, render.Section{Title: heading(entry), Markdown: text})
		}
	}
	return sections
}
