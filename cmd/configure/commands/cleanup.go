package commands

import (
	"fmt"

	"github.com/benvon/lemonaid/internal/cleanup"
	"github.com/spf13/cobra"
)

// NewCleanupCmd creates the cleanup command
func NewCleanupCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove template documentation and examples",
		Long:  "Remove the starter template's own documents and example folders from a project created from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := cleanup.Run(dir, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if len(res.Failed) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d entries could not be removed\n", len(res.Failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Project directory to clean")

	return cmd
}
