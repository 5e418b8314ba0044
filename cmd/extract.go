package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magellan-group/report-triage/internal/extract"
)

var (
	extractSave  bool
	extractOwner string
)

var extractCmd = &cobra.Command{
	Use:   "extract <report.pdf>",
	Short: "Run extraction against a local PDF and print the record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("extract"); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read pdf")
		}

		pipeline, err := initPipeline()
		if err != nil {
			return err
		}

		payload, err := pipeline.Extract(cmd.Context(), data)
		if err != nil {
			return err
		}

		rec := extract.Transform(payload, extract.Source{
			OwnerID:  extractOwner,
			Filename: filepath.Base(args[0]),
		})

		if extractSave {
			records, err := initStore(cmd.Context())
			if err != nil {
				return err
			}
			defer records.Close()
			if err := records.Migrate(cmd.Context()); err != nil {
				return err
			}
			if err := records.InsertRecord(cmd.Context(), rec); err != nil {
				return err
			}
			zap.L().Info("record saved", zap.String("record_id", rec.ID))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rec), "encode record")
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "persist the extracted record")
	extractCmd.Flags().StringVar(&extractOwner, "owner", "cli", "owner ID to attach to the record")
	rootCmd.AddCommand(extractCmd)
}
