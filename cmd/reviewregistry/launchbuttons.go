package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewregistry/internal/adapter/driving/pagehook"
)

var pageSuffixes = []string{".ipynb", ".md", ".myst"}

func newLaunchButtonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch-buttons PAGE",
		Short: "Print the JupyterHub launch buttons for a documentation page",
		Long: `Print, as JSON, the launch buttons the multi-hub hook appends for PAGE,
using the jupyterhub_servers configured in the book's _config.yml.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			srcdir, _ := cmd.Flags().GetString("srcdir")

			book, err := pagehook.LoadBookConfig(configPath)
			if err != nil {
				return err
			}

			ctx := pagehook.Context{
				"header_buttons": []any{},
				"launch_buttons": []any{},
			}
			page := pagehook.Page{Name: args[0], SourcePath: pageSource(srcdir, args[0])}
			pagehook.AddJupyterHubButtons(ctx, page, book.Settings())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(ctx["launch_buttons"])
		},
	}
	cmd.Flags().String("config", "books/_config.yml", "Jupyter Book configuration file")
	cmd.Flags().String("srcdir", "books", "documentation source directory")
	return cmd
}

// pageSource returns the first existing source file for page, falling back
// to the Markdown name.
func pageSource(srcdir, page string) string {
	for _, suffix := range pageSuffixes {
		p := filepath.Join(srcdir, page+suffix)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(srcdir, page+".md")
}
