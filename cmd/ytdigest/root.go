package main

import (
	"github.com/spf13/cobra"

	"ytdigest/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "ytdigest",
		Short:         "Daily market-commentary digest from channel transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configFlag)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(&cfg))
	rootCmd.AddCommand(newResolveCommand(&cfg))
	rootCmd.AddCommand(newChannelsCommand(&cfg))

	return rootCmd
}
