// Package cli defines the stride command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/strideworks/stride/internal/config"
)

// NewRootCmd creates the top-level "stride" command and registers all
// subcommands.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "stride",
		Short:         "Conversational running coach engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(cfg),
		newChatCmd(cfg),
	)

	return root
}
