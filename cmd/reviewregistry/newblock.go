package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewregistry/internal/application"
)

func newBlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-block [review-id]",
		Short: "Print an empty nd-review block for a new review issue",
		Long: `Print an nd-review annotation block to paste into a review issue.
A random UUID is used when no review id is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := uuid.NewString()
			if len(args) == 1 {
				id = strings.TrimSpace(args[0])
			}
			if id == "" {
				return fmt.Errorf("review id must not be empty")
			}
			fmt.Fprint(cmd.OutOrStdout(), application.FormatAnnotationBlock(id))
			return nil
		},
	}
}
