package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depcore/internal/app"
)

func newWhyCommand() *cobra.Command {
	opts := solveOptions{}
	cmd := &cobra.Command{
		Use:   "why",
		Short: "Explain whether a job queue is satisfiable and, if not, why",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhy(cmd, opts)
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

func runWhy(cmd *cobra.Command, opts solveOptions) error {
	svc, err := newAppService(cmd)
	if err != nil {
		return err
	}
	defer svc.PoolCache.Close()

	poolFile := resolveString(cmd, opts.PoolFile, "pool", "pool")
	if poolFile == "" {
		return fmt.Errorf("why: --pool is required")
	}
	if err := svc.PoolLoad(app.PoolLoadRequest{SrcPath: poolFile}); err != nil {
		return err
	}

	jobs, err := buildJobs(&svc, opts)
	if err != nil {
		return err
	}

	result, err := svc.Why(cmd.Context(), app.SolveRequest{Jobs: jobs})
	if err != nil {
		return err
	}

	if result.Satisfiable {
		fmt.Println("satisfiable")
		return nil
	}
	fmt.Printf("unsatisfiable: %d rules in core\n", len(result.Problem.CoreRuleSeqs))
	for _, d := range result.Problem.SolutionDetails {
		fmt.Printf("  solution: %s\n", d)
	}
	return nil
}
