package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewregistry/internal/adapter/driving/pagehook"
)

func newPageMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page-meta PAGE",
		Short: "Print the nd-review-id meta tag for a documentation page",
		Long: `Print the <meta name="nd-review-id"> tag the review meta hook injects
for PAGE, a document name relative to --srcdir without extension.
Nothing is printed when the page has no review id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcdir, err := cmd.Flags().GetString("srcdir")
			if err != nil {
				return err
			}

			ctx := pagehook.Context{}
			if !pagehook.AddReviewMeta(ctx, pagehook.MetaSource{SrcDir: srcdir}, args[0]) {
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), ctx["metatags"])
			return nil
		},
	}
	cmd.Flags().String("srcdir", "books", "documentation source directory")
	return cmd
}
