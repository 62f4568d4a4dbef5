package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"docforge/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past generation requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if statusFilter != "" {
				filtered := records[:0]
				for _, rec := range records {
					if string(rec.Status) == statusFilter {
						filtered = append(filtered, rec)
					}
				}
				records = filtered
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No history")
				return nil
			}

			headers := []string{"ID", "Template", "Status", "Formats", "Validation", "Created"}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.ID,
					rec.Template,
					string(rec.Status),
					strings.Join(rec.Formats, ","),
					rec.ValidationStatus,
					rec.CreatedAt.Local().Format(time.DateTime),
				})
			}

			if isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(out, renderTable(headers, rows))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show records with this status (running, completed, failed)")
	cmd.AddCommand(newHistoryClearCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))

	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	}
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <request-id>",
		Short: "Show one generation request in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if rec == nil {
				return fmt.Errorf("no history record with id %s", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:         %s\n", rec.ID)
			fmt.Fprintf(out, "Template:   %s\n", rec.Template)
			fmt.Fprintf(out, "Status:     %s\n", rec.Status)
			fmt.Fprintf(out, "Formats:    %s\n", strings.Join(rec.Formats, ","))
			fmt.Fprintf(out, "Created:    %s\n", rec.CreatedAt.Local().Format(time.DateTime))
			if rec.CompletedAt != nil {
				fmt.Fprintf(out, "Completed:  %s\n", rec.CompletedAt.Local().Format(time.DateTime))
			}
			if rec.ValidationStatus != "" {
				fmt.Fprintf(out, "Validation: %s\n", rec.ValidationStatus)
			}
			if rec.ValidationReason != "" {
				fmt.Fprintf(out, "Reason:     %s\n", rec.ValidationReason)
			}
			if rec.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:      %s\n", rec.ErrorMessage)
			}
			for _, artifact := range rec.Artifacts {
				fmt.Fprintf(out, "Artifact:   %s %s\n", artifact.Format, artifact.Path)
			}
			return nil
		},
	}
}
