package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytdigest/config"
	"ytdigest/storage"
	"ytdigest/youtube"
)

func newResolveCommand(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <reference>",
		Short: "Resolve a channel reference to its canonical channel ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg

			cache, err := storage.OpenIDCache(c.CachePath)
			if err != nil {
				return fmt.Errorf("open id cache: %w", err)
			}
			defer cache.Close()

			lister, err := newLister(cmd.Context(), c)
			if err != nil {
				return err
			}

			resolver := youtube.NewResolver(lister, cache)
			id, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err := cache.Save(); err != nil {
				return fmt.Errorf("persist id cache: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}
