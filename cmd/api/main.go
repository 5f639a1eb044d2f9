package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand builds the storefront CLI. Without a subcommand it serves HTTP.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Online store web server",
		Long:          "storefront serves a small product catalogue as HTML pages and a JSON API, and manages the catalogue from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newProductsCommand())

	return rootCmd
}

// newServeCommand creates the serve command.
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}
