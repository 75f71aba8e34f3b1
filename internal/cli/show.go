package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smaximov/elixir-sense/pkg/docs"
)

func newShowCommand(opts *options) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "show MODULE",
		Short: "Print a module's documentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module := args[0]
			cat, err := docs.ParseCategory(category)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			documentation, err := newProvider(cfg).Docs(module, cat)
			if docs.Unavailable(err) {
				return fmt.Errorf("no documentation available for %s", module)
			}
			if err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), module, documentation)
		},
	}

	cmd.Flags().StringVar(&category, "category", "functions", "Category: module, functions, types or callbacks")
	return cmd
}

// writeText lays out one documentation category for terminal reading.
func writeText(w io.Writer, module string, documentation *docs.Documentation) error {
	if documentation.Module != nil {
		fmt.Fprintf(w, "# %s\n\n%s\n", module, docText(documentation.Module.Doc))
		return nil
	}

	fmt.Fprintf(w, "# %s (%s)\n", module, documentation.Category)
	if len(documentation.Entries) == 0 {
		fmt.Fprintf(w, "\nnothing documented\n")
		return nil
	}
	for _, entry := range documentation.Entries {
		fmt.Fprintf(w, "\n## %s\n", heading(entry))
		if behaviour, ok := entry.Metadata["implementing"]; ok {
			fmt.Fprintf(w, "(inherited from behaviour %v)\n", behaviour)
		}
		fmt.Fprintf(w, "\n%s\n", docText(entry.Doc))
	}
	return nil
}

func heading(entry docs.Entry) string {
	if len(entry.Args) > 0 {
		return fmt.Sprintf("%s(%s)", entry.ID.Name, strings.Join(entry.Args, ", "))
	}
	return entry.ID.String()
}

func docText(text docs.DocText) string {
	if s, ok := text.Text(); ok {
		return s
	}
	if text.IsHidden() {
		return "(documentation hidden)"
	}
	return "(no documentation)"
}
