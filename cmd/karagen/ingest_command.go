package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"karagen/internal/directory"
	"karagen/internal/ingest"
	"karagen/internal/mediatools"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <request.json>",
		Short: "Run one ingestion from a request file",
		Long: `Ingest reads a JSON request describing an uploaded karaoke track and runs
it through the full pipeline: validation, staging, subtitle normalization,
identity reconciliation, filename derivation, transcoding and the final
catalog write. On failure every staged file is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			req, err := ingest.LoadRequest(args[0])
			if err != nil {
				return err
			}

			store, err := directory.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			orch := ingest.New(cfg, store, mediatools.NewFFmpeg(cfg, logger), logger)
			result, err := orch.Ingest(cmd.Context(), req)
			if err != nil {
				if result.State == "" {
					return err
				}
				return fmt.Errorf("ingestion ended in state %s: %w", result.State, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Committed %s\n", result.Entry.Title)
			fmt.Fprintf(out, "  entry:  %s\n", result.Entry.ID)
			fmt.Fprintf(out, "  media:  %s\n", result.Entry.MediaFile)
			if result.Entry.SubFile != "" {
				fmt.Fprintf(out, "  lyrics: %s\n", result.Entry.SubFile)
			}
			fmt.Fprintf(out, "  kara:   %s\n", result.KaraPath)
			return nil
		},
	}
	return cmd
}
