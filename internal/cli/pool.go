package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"depcore/internal/app"
)

func newPoolCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Dump and load .solv pool files against the pool cache",
	}
	cmd.AddCommand(newPoolDumpCommand())
	cmd.AddCommand(newPoolLoadCommand())
	return cmd
}

func newPoolDumpCommand() *cobra.Command {
	var cacheKey, dest string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write a cached pool to a .solv file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newAppService(cmd)
			if err != nil {
				return err
			}
			defer svc.PoolCache.Close()
			if err := svc.PoolDump(app.PoolDumpRequest{CacheKey: cacheKey, DestPath: dest}); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", dest)
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheKey, "cache-key", "", "Cache key to read the pool from")
	cmd.Flags().StringVar(&dest, "out", "", "Destination .solv path")
	return cmd
}

func newPoolLoadCommand() *cobra.Command {
	var cacheKey, src string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Read a .solv file into the pool cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newAppService(cmd)
			if err != nil {
				return err
			}
			defer svc.PoolCache.Close()
			if err := svc.PoolLoad(app.PoolLoadRequest{SrcPath: src, CacheKey: cacheKey}); err != nil {
				return err
			}
			fmt.Printf("loaded %s (%d solvables)\n", src, svc.Pool.SolvableCount())
			return nil
		},
	}
	cmd.Flags().StringVar(&cacheKey, "cache-key", "", "Cache key to store the loaded pool under")
	cmd.Flags().StringVar(&src, "in", "", "Source .solv path")
	return cmd
}
