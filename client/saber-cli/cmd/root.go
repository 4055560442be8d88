package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type options struct {
	server     string
	sender     string
	senderName string
	token      string
	prefix     string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "saber-cli",
		Short: "A CLI client for the Saber knowledge service",
		Long: `A command-line interface for asking the knowledge service questions,
teaching it new facts and inspecting what it has stored.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("SABER_SERVER", "http://localhost:8080"), "knowledge service base URL")
	flags.StringVar(&opts.sender, "sender", envOr("SABER_SENDER", "cli"), "sender id the messages are attributed to")
	flags.StringVar(&opts.senderName, "name", "", "sender display name")
	flags.StringVar(&opts.token, "token", os.Getenv("SABER_TOKEN"), "bearer token, when the service requires auth")

	learn := newLearnCmd(opts)
	learn.Flags().StringVar(&opts.prefix, "prefix", "/aprender ", "learning command prefix configured on the service")

	rootCmd.AddCommand(newAskCmd(opts), learn, newFactsCmd(opts), newHealthCmd(opts))
	return rootCmd
}

// Execute runs the CLI. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI: %s\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
