package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := o.send(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rep.Reply)
			return nil
		},
	}
}

func newLearnCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "learn [statement]",
		Short: "Teach the service a statement through a learning command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := o.send(o.prefix + strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rep.Reply)
			fmt.Fprintf(cmd.OutOrStdout(), "(%d facts stored)\n", rep.FactsStored)
			return nil
		},
	}
}
