package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"karagen/internal/directory"
)

func newTagsCommand(ctx *commandContext) *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Tag identity utilities",
	}
	tagsCmd.AddCommand(newTagsListCommand(ctx))
	return tagsCmd
}

func newTagsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tag identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := directory.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListTags(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(records))
			for _, record := range records {
				labels := make([]string, 0, len(record.Categories))
				for _, category := range record.Categories {
					labels = append(labels, category.Label())
				}
				rows = append(rows, table.Row{
					record.Name,
					strings.Join(labels, ", "),
					shortID(record.TID),
					record.Repository,
					record.Priority,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				table.Row{"Name", "Categories", "ID", "Repository", "Priority"},
				rows,
				5,
			))
			return nil
		},
	}
}

func newSeriesCommand(ctx *commandContext) *cobra.Command {
	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "Series identity utilities",
	}
	seriesCmd.AddCommand(newSeriesListCommand(ctx))
	return seriesCmd
}

func newSeriesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered series identities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := directory.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListSeries(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]table.Row, 0, len(records))
			for _, record := range records {
				locales := make([]string, 0, len(record.I18n))
				for locale := range record.I18n {
					locales = append(locales, locale)
				}
				sort.Strings(locales)
				rows = append(rows, table.Row{
					record.Name,
					strings.Join(locales, ", "),
					shortID(record.SID),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				table.Row{"Name", "Locales", "ID"},
				rows,
			))
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
