package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/feeaudit/internal/detect"
	"github.com/cleared-dev/feeaudit/internal/ingest"
	"github.com/cleared-dev/feeaudit/internal/logger"
	"github.com/cleared-dev/feeaudit/internal/model"
	"github.com/cleared-dev/feeaudit/internal/report"
)

type writeFunc func(io.Writer, *report.Report) error

var writers = map[string]writeFunc{
	"text": report.WriteText,
	"csv":  report.WriteCSV,
	"json": report.WriteJSON,
	"xlsx": report.WriteXLSX,
}

func newAuditCommand(rt *runtime) *cobra.Command {
	var output string
	var categories []string

	cmd := &cobra.Command{
		Use:   "audit <statement|directory>...",
		Short: "Audit statements for fee overcharges",
		Long: `Extract the text of each PDF, CSV or TXT statement, detect every fee
category and compare the actual charges with the published tariff.

A directory argument audits every supported file inside it. With several
statements, --output names a directory that receives one report per statement.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(categories) == 0 {
				categories = rt.cfg.Output.Categories
			}
			return runAudit(cmd, rt, args, output, categories)
		},
	}

	cmd.Flags().StringP("format", "f", "text", "report format (text, csv, json, xlsx)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "only these categories (repeatable)")
	cmd.Flags().Bool("parallel", false, "run category detectors concurrently")
	_ = rt.v.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	_ = rt.v.BindPFlag("output.parallel", cmd.Flags().Lookup("parallel"))

	return cmd
}

func runAudit(cmd *cobra.Command, rt *runtime, args []string, output string, categories []string) error {
	format := rt.cfg.Output.Format
	write, ok := writers[format]
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}

	cats := make([]model.Category, len(categories))
	for i, c := range categories {
		cats[i] = model.Category(strings.TrimSpace(c))
	}
	reg, err := detect.DefaultRegistry(rt.cfg.Tariff).Select(cats...)
	if err != nil {
		return err
	}

	extractors := ingest.DefaultRegistry()
	paths, err := expandPaths(extractors, args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no statements found in %s", strings.Join(args, ", "))
	}
	if format == "xlsx" && output == "" {
		return fmt.Errorf("xlsx output needs --output")
	}

	ctx := logger.WithContext(cmd.Context(), rt.log)
	opts := report.Options{Parallel: rt.cfg.Output.Parallel}

	for _, path := range paths {
		stmt, err := extractors.ReadFile(path)
		if err != nil {
			return err
		}
		rep, err := report.Assemble(ctx, stmt, reg, opts)
		if err != nil {
			return fmt.Errorf("auditing %s: %w", path, err)
		}

		dest := output
		if len(paths) > 1 && output != "" {
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			dest = filepath.Join(output, stem+"."+format)
		}
		if err := emit(cmd.OutOrStdout(), dest, rep, write); err != nil {
			return err
		}
		rt.log.Info().
			Str("statement", path).
			Strs("overcharged", overchargedCategories(rep)).
			Msg("audit complete")
	}
	return nil
}

// overchargedCategories lists the categories whose totals show an overcharge.
func overchargedCategories(rep *report.Report) []string {
	var out []string
	for _, s := range rep.Summary() {
		if s.Overcharge.Valid && s.Overcharge.Decimal.IsPositive() {
			out = append(out, string(s.Category))
		}
	}
	return out
}

// expandPaths replaces directory arguments with the statements inside them.
func expandPaths(extractors *ingest.Registry, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := extractors.Scan(arg)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
	}
	return paths, nil
}

func emit(stdout io.Writer, dest string, rep *report.Report, write writeFunc) error {
	if dest == "" {
		return write(stdout, rep)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", dest, err)
	}
	if err := write(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
