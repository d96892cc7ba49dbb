// Command invoicer renders invoices from JSON fixtures, inspects the template
// catalog and manages logos without running the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invoicer",
		Short:         "Render invoices and manage invoice templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRenderCmd(),
		newTemplatesCmd(),
		newWatchCmd(),
		newLogoCmd(),
		newTokenCmd(),
	)
	return root
}
