package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magellan-group/report-triage/internal/export"
	"github.com/magellan-group/report-triage/internal/store"
)

var (
	exportOwner  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump an owner's records to a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("migrate"); err != nil {
			return err
		}
		if exportOwner == "" {
			return eris.New("--owner is required")
		}

		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		records, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer records.Close()

		recs, err := records.ListRecords(cmd.Context(), exportOwner, store.RecordFilter{Limit: 10_000})
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = format.Filename(time.Now())
		}
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close()

		if err := export.Write(f, format, recs); err != nil {
			return err
		}
		zap.L().Info("export written",
			zap.String("path", out),
			zap.Int("records", len(recs)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOwner, "owner", "", "owner ID to export")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default date-stamped name)")
	rootCmd.AddCommand(exportCmd)
}
