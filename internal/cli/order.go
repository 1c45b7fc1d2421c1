package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depcore/internal/app"
)

func newOrderCommand() *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Resolve a job queue and print its transaction steps in application order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOrder(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PoolFile, "pool", "", "Path to a .solv pool file")
	cmd.Flags().StringSliceVar(&opts.Install, "install", nil, "Package name(s) to install")
	cmd.Flags().StringSliceVar(&opts.Erase, "erase", nil, "Package name(s) to erase")
	cmd.Flags().StringSliceVar(&opts.Update, "update", nil, "Package name(s) to update")
	cmd.Flags().BoolVar(&opts.Distupgrade, "distupgrade", false, "Replace the installed set with the best available everywhere")
	_ = viper.BindPFlag("pool", cmd.Flags().Lookup("pool"))

	return cmd
}

func runOrder(cmd *cobra.Command, opts solveOptions) error {
	svc, err := newAppService(cmd)
	if err != nil {
		return err
	}
	defer svc.PoolCache.Close()

	poolFile := resolveString(cmd, opts.PoolFile, "pool", "pool")
	if poolFile == "" {
		return fmt.Errorf("order: --pool is required")
	}
	if err := svc.PoolLoad(app.PoolLoadRequest{SrcPath: poolFile}); err != nil {
		return err
	}

	jobs, err := buildJobs(&svc, opts)
	if err != nil {
		return err
	}

	result, err := svc.Order(cmd.Context(), app.SolveRequest{Jobs: jobs})
	if err != nil {
		return err
	}

	for i, step := range result.Steps {
		fmt.Printf("%d. %s %s\n", i+1, step.Kind, step.Name)
	}
	for _, c := range result.Cycles {
		fmt.Printf("cycle (%s): %v, cut %s -> %s\n", c.Severity, c.Steps, c.CutFrom, c.CutTo)
	}
	return nil
}
