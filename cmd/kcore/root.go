package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arctir/kcore/hostenv"
	"github.com/arctir/kcore/kernel"
)

const (
	policyFlag = "policy"
	nprocFlag  = "nproc"
	ncpuFlag   = "ncpu"
	tickFlag   = "tick"
	saveFlag   = "save-defaults"
)

// runCmd boots a Kernel, seeds the demo process tree, and drops into the
// ps/nice/kill REPL. This mirrors the donor's single top-level command
// (cmd/cmd.go's proctorCmd) more than its multi-resource CLI (proctor/cmd),
// since there is exactly one resource here: one running kernel per process.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Boot a simulated kernel, seed a demo process tree, and interact with it.",
	Run:   runRun,
}

var rootCmd = &cobra.Command{
	Use:   "kcore",
	Short: "A simulator for a small teaching kernel's process subsystem and scheduler.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	saved := loadConfig()

	defaultPolicy := saved.DefaultPolicy
	if defaultPolicy == "" {
		defaultPolicy = "default"
	}
	defaultNProc := saved.DefaultNProc
	if defaultNProc <= 0 {
		defaultNProc = kernel.DefaultNPROC
	}

	runCmd.Flags().String(policyFlag, defaultPolicy, "Scheduling policy: default, fcfs, pbs, mlfq.")
	runCmd.Flags().Int(nprocFlag, defaultNProc, "Size of the fixed process table.")
	runCmd.Flags().Int(ncpuFlag, 0, "Number of simulated CPUs (0 probes the host; forced to 1 under mlfq).")
	runCmd.Flags().Duration(tickFlag, 50*time.Millisecond, "Wall-clock duration of one simulated tick.")
	runCmd.Flags().Bool(saveFlag, false, "Persist --policy/--nproc as the defaults for future runs.")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	fs := cmd.Flags()
	policyName, _ := fs.GetString(policyFlag)
	nproc, _ := fs.GetInt(nprocFlag)
	ncpu, _ := fs.GetInt(ncpuFlag)
	tickEvery, _ := fs.GetDuration(tickFlag)
	save, _ := fs.GetBool(saveFlag)

	policy, err := kernel.ParsePolicy(policyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if ncpu <= 0 {
		ncpu = hostenv.Probe().NCPU()
		if policy == kernel.PolicyMLFQ {
			ncpu = 1
		}
	}

	if save {
		if err := saveConfig(fileConfig{DefaultPolicy: policyName, DefaultNProc: nproc}); err != nil {
			fmt.Fprintf(os.Stderr, "kcore: failed saving defaults: %v\n", err)
		}
	}

	s := newSession(kernel.Config{NProc: nproc, NCPU: ncpu, Policy: policy}, tickEvery)
	s.boot()
	defer s.shutdown()

	s.seedDemo()
	s.repl()
}

// Execute runs the root command, matching the donor's SetupCLI/SetupCommands
// entry point shape.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
