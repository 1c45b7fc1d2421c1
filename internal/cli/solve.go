package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depcore/internal/app"
	"depcore/internal/selection"
	"depcore/internal/types"
)

type solveOptions struct {
	PoolFile    string
	Install     []string
	Erase       []string
	Update      []string
	Distupgrade bool
	Mountpoints []string
	CacheKey    string
}

func newSolveCommand() *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Resolve a job queue against a pool file into a transaction plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PoolFile, "pool", "", "Path to a .solv pool file")
	cmd.Flags().StringSliceVar(&opts.Install, "install", nil, "Package name(s) to install")
	cmd.Flags().StringSliceVar(&opts.Erase, "erase", nil, "Package name(s) to erase")
	cmd.Flags().StringSliceVar(&opts.Update, "update", nil, "Package name(s) to update")
	cmd.Flags().BoolVar(&opts.Distupgrade, "distupgrade", false, "Replace the installed set with the best available everywhere")
	cmd.Flags().StringSliceVar(&opts.Mountpoints, "mountpoint", nil, "Mountpoint(s) for disk-usage aggregation")
	cmd.Flags().StringVar(&opts.CacheKey, "cache-key", "", "Cache key to persist the solved pool under")

	_ = viper.BindPFlag("pool", cmd.Flags().Lookup("pool"))
	_ = viper.BindPFlag("cache_key", cmd.Flags().Lookup("cache-key"))

	return cmd
}

func runSolve(cmd *cobra.Command, opts solveOptions) error {
	svc, err := newAppService(cmd)
	if err != nil {
		return err
	}
	defer svc.PoolCache.Close()

	poolFile := resolveString(cmd, opts.PoolFile, "pool", "pool")
	if poolFile == "" {
		return fmt.Errorf("solve: --pool is required")
	}
	if err := svc.PoolLoad(app.PoolLoadRequest{SrcPath: poolFile}); err != nil {
		return err
	}

	jobs, err := buildJobs(&svc, opts)
	if err != nil {
		return err
	}

	result, err := svc.Solve(cmd.Context(), app.SolveRequest{
		Jobs:        jobs,
		Mountpoints: resolveStrings(cmd, opts.Mountpoints, "mountpoint", "mountpoint"),
		CacheKey:    resolveString(cmd, opts.CacheKey, "cache_key", "cache-key"),
	})
	if err != nil {
		return err
	}

	printSolveResult(result)
	return nil
}

func buildJobs(svc *app.Service, opts solveOptions) ([]types.Job, error) {
	sel := selection.NewEngine(svc.Pool)
	var jobs []types.Job

	add := func(names []string, jobType types.JobType) error {
		for _, name := range names {
			job, ok := sel.Select(name, jobType, types.SelName)
			if !ok {
				return fmt.Errorf("solve: no package named %q", name)
			}
			jobs = append(jobs, job)
		}
		return nil
	}

	if err := add(opts.Install, types.JobInstall); err != nil {
		return nil, err
	}
	if err := add(opts.Erase, types.JobErase); err != nil {
		return nil, err
	}
	if err := add(opts.Update, types.JobUpdate); err != nil {
		return nil, err
	}
	if opts.Distupgrade {
		jobs = append(jobs, types.Job{Type: types.JobDistupgrade, Flags: types.SelAll})
	}
	return jobs, nil
}

func printSolveResult(result app.SolveResult) {
	if result.Plan != nil {
		fmt.Printf("plan: %d steps, %d ordering cycles\n", result.Plan.StepCount, result.Plan.Cycles)
		for mp, bytes := range result.Plan.DiskUsage {
			fmt.Printf("  %s: %d bytes\n", mp, bytes)
		}
		return
	}
	fmt.Printf("unsatisfiable: %d rules in core\n", len(result.Problem.CoreRuleSeqs))
	for _, d := range result.Problem.SolutionDetails {
		fmt.Printf("  solution: %s\n", d)
	}
}
