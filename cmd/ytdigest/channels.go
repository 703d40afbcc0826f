package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ytdigest/config"
)

func newChannelsCommand(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "List the configured channels in processing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if len(c.Channels) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no channels configured")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tNAME\tREFERENCE")
			for i, ch := range c.Channels {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, ch.Name, ch.Reference)
			}
			return w.Flush()
		},
	}
}
