package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/ifcgo"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage binary model caches",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "build FILE...",
			Short: "Parse models and write their caches",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cm, err := cacheManager(cmd.Context(), a.cfg)
				if err != nil {
					return err
				}
				for _, path := range args {
					src, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
					if err != nil {
						return err
					}
					m, err := ifcgo.Parse(cmd.Context(), src, a.parseOptions(cmd)...)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					key := cm.Key(src)
					n, err := cm.Save(cmd.Context(), key, m)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d bytes\n", path, key, n)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "load FILE",
			Short: "Load a model through the cache and print a summary",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				src, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				cm, err := cacheManager(cmd.Context(), a.cfg)
				if err != nil {
					return err
				}
				m, hit, err := cm.Load(cmd.Context(), src, a.parseOptions(cmd)...)
				if err != nil {
					return err
				}
				s := summarize(args[0], m)
				if a.asJSON {
					return a.write(cmd, struct {
						fileSummary
						Hit bool `json:"cacheHit"`
					}{s, hit})
				}
				s.writeText(cmd.OutOrStdout())
				fmt.Fprintf(cmd.OutOrStdout(), "  cache hit:     %t\n", hit)
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List cache blobs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cm, err := cacheManager(cmd.Context(), a.cfg)
				if err != nil {
					return err
				}
				keys, err := cm.List(cmd.Context())
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.write(cmd, keys)
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm KEY...",
			Short: "Remove cache blobs",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cm, err := cacheManager(cmd.Context(), a.cfg)
				if err != nil {
					return err
				}
				for _, key := range args {
					if err := cm.Delete(cmd.Context(), key); err != nil {
						return err
					}
				}
				return nil
			},
		},
	)
	return cmd
}
