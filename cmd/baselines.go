package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/eval-cli/internal/registry"
)

var baselinesCmd = &cobra.Command{
	Use:   "baselines",
	Short: "Inspect expectation baselines",
	Long:  "Commands for listing and viewing the baseline fixtures the evaluator runs against.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return baselinesListCmd.RunE(cmd, args)
	},
}

var baselinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded baselines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := registry.New()
		if err := registry.LoadDir(reg, cfg.Eval.BaselineDir); err != nil {
			return eris.Wrap(err, "load baselines")
		}

		if reg.Len() == 0 {
			fmt.Fprintln(os.Stderr, "No baselines found.")
			return nil
		}

		formatBaselinesList(os.Stdout, reg)
		return nil
	},
}

var baselinesShowCmd = &cobra.Command{
	Use:   "show <test-name>",
	Short: "Show a baseline's full expectations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.New()
		if err := registry.LoadDir(reg, cfg.Eval.BaselineDir); err != nil {
			return eris.Wrap(err, "load baselines")
		}

		baseline, err := reg.Lookup(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(baseline)
	},
}

func formatBaselinesList(out io.Writer, reg *registry.Registry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEST\tSUBJECT\tREQUIRED\tOPTIONAL")
	for _, name := range reg.Names() {
		b, err := reg.Lookup(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", b.TestName, b.SubjectName, len(b.RequiredFields), len(b.OptionalFields))
	}
	w.Flush()
}

func init() {
	baselinesCmd.AddCommand(baselinesListCmd)
	baselinesCmd.AddCommand(baselinesShowCmd)
	rootCmd.AddCommand(baselinesCmd)
}
