package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docforge/internal/convert"
	"docforge/internal/grid"
	"docforge/internal/history"
	"docforge/internal/logging"
	"docforge/internal/pipeline"
	"docforge/internal/token"
	"docforge/internal/validate"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		bindingsPath  string
		setFlags      []string
		rows          int
		dataCells     int
		sharedColumns []string
		calendar      bool
		months        int
		formats       []string
		archival      bool
		strict        bool
		all           bool
	)

	cmd := &cobra.Command{
		Use:   "generate [template]",
		Short: "Render a template and produce output artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var templates []string
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("--all and a template name are mutually exclusive")
			case all:
				templates, err = pipeline.ListTemplates(cfg)
				if err != nil {
					return err
				}
				if len(templates) == 0 {
					return fmt.Errorf("no templates found in %s", cfg.Paths.TemplateDir)
				}
			case len(args) == 1:
				templates = []string{args[0]}
			default:
				return fmt.Errorf("a template name (or --all) is required")
			}

			bindings, err := loadBindings(bindingsPath, setFlags)
			if err != nil {
				return err
			}

			gridSpec, err := buildGridSpec(rows, dataCells, sharedColumns, calendar, months)
			if err != nil {
				return err
			}

			parsedFormats := make([]convert.Format, 0, len(formats))
			for _, raw := range formats {
				format, err := convert.ParseFormat(raw)
				if err != nil {
					return err
				}
				parsedFormats = append(parsedFormats, format)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			runner := pipeline.New(cfg, logger, pipeline.WithStore(store))

			out := cmd.OutOrStdout()
			for _, template := range templates {
				result, err := runner.Run(cmd.Context(), pipeline.Request{
					Template: template,
					Bindings: bindings,
					Grid:     gridSpec,
					Formats:  parsedFormats,
					Archival: archival,
					Strict:   strict,
				})
				if err != nil {
					if result != nil && result.Validation != nil && result.Validation.Status == validate.StatusFail {
						fmt.Fprintf(out, "%s: validation failed\n%s\n", template, result.Validation.Reason)
					}
					return fmt.Errorf("generate %s: %w", template, err)
				}
				for _, artifact := range result.Artifacts {
					fmt.Fprintf(out, "%s: %s -> %s\n", template, artifact.Format, artifact.Path)
				}
				if result.Validation != nil {
					fmt.Fprintf(out, "%s: validation %s\n", template, result.Validation.Status)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&bindingsPath, "bindings", "b", "", "Path to a JSON file of token bindings")
	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Bind a single token (name=value, repeatable)")
	cmd.Flags().IntVar(&rows, "rows", 0, "Number of dynamic table rows to generate")
	cmd.Flags().IntVar(&dataCells, "data-cells", 0, "Empty data cells per generated row")
	cmd.Flags().StringArrayVar(&sharedColumns, "shared-column", nil, "Token name for a column spanning all generated rows (repeatable)")
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Generate a calendar layout instead of a plain table")
	cmd.Flags().IntVar(&months, "months", 12, "Calendar span in months (12 or 24)")
	cmd.Flags().StringArrayVarP(&formats, "format", "f", []string{"pdf"}, "Output format: pdf or docx (repeatable)")
	cmd.Flags().BoolVar(&archival, "archival", false, "Rewrite PDF output to the archival profile and validate conformance")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on unbound tokens instead of leaving them blank")
	cmd.Flags().BoolVar(&all, "all", false, "Generate every template in the template directory")

	return cmd
}

func loadBindings(path string, setFlags []string) (token.Bindings, error) {
	bindings := token.Bindings{}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read bindings file: %w", err)
		}
		if err := json.Unmarshal(data, &bindings); err != nil {
			return nil, fmt.Errorf("parse bindings file: %w", err)
		}
	}
	for _, raw := range setFlags {
		name, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set value %q, expected name=value", raw)
		}
		bindings[strings.TrimSpace(name)] = value
	}
	return bindings, nil
}

func buildGridSpec(rows, dataCells int, sharedColumns []string, calendar bool, months int) (*grid.Spec, error) {
	if rows == 0 && !calendar {
		if dataCells > 0 || len(sharedColumns) > 0 {
			return nil, fmt.Errorf("--data-cells and --shared-column require --rows")
		}
		return nil, nil
	}
	if rows == 0 {
		return nil, fmt.Errorf("--calendar requires --rows")
	}

	layout := grid.Layout{
		Kind:          grid.KindTable,
		DataCells:     dataCells,
		SharedColumns: sharedColumns,
	}
	if calendar {
		layout = grid.Layout{Kind: grid.KindCalendar, Months: months}
	}
	return &grid.Spec{Rows: rows, Layout: layout}, nil
}
