package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"depcore/internal/app"
)

type testcaseRunOptions struct {
	NativeArch string
}

func newTestcaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testcase",
		Short: "Work with line-oriented testcase fixtures",
	}
	cmd.AddCommand(newTestcaseRunCommand())
	return cmd
}

func newTestcaseRunCommand() *cobra.Command {
	opts := testcaseRunOptions{}
	cmd := &cobra.Command{
		Use:   "run <fixture.t>",
		Short: "Build a fixture into a pool, solve its jobs, and check its expectations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestcaseRun(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.NativeArch, "arch", "amd64", "Native architecture to score packages against")
	return cmd
}

func runTestcaseRun(cmd *cobra.Command, path string, opts testcaseRunOptions) error {
	svc, err := newAppService(cmd)
	if err != nil {
		return err
	}
	defer svc.PoolCache.Close()

	result, err := svc.TestcaseRun(cmd.Context(), app.TestcaseRunRequest{
		Path:       path,
		NativeArch: opts.NativeArch,
	})
	if err != nil {
		return err
	}

	if !result.Solved {
		fmt.Printf("FAIL %s\n", path)
		for _, m := range result.Mismatch {
			fmt.Printf("  %s\n", m)
		}
		return fmt.Errorf("testcase: %s did not match its expected results", path)
	}
	fmt.Printf("ok %s\n", path)
	printSolveResult(result.SolveResult)
	return nil
}
