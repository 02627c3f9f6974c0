package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eval-cli/internal/export"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a stored run as a comparison workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		res, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		if err := export.WriteWorkbook(res, exportOutput); err != nil {
			return eris.Wrapf(err, "export run %s", args[0])
		}

		zap.L().Info("workbook written",
			zap.String("run", args[0]),
			zap.String("path", exportOutput))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "eval.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
