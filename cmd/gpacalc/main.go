package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gpacalc/internal/bootstrap"
	gpadto "gpacalc/internal/modules/gpa/dto"
	"gpacalc/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "gpacalc",
		Short:         "Semester and cumulative GPA calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "directory holding gpacalc.toml, reports and the report index")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newCalcCmd(&dataDir))
	root.AddCommand(newReportCmd(&dataDir))
	return root
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive calculator",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newCalcCmd(dataDir *string) *cobra.Command {
	var sets, formats []string
	var export bool
	var label string

	calc := &cobra.Command{
		Use:   "calc --set <level>:<semester>:<field>=<value> ...",
		Short: "Calculate semester and cumulative GPA",
		Example: "  gpacalc calc --set 100:1:gpa=9.5 --set 100:1:credits=20 \\\n" +
			"    --set 100:2:gpa=8 --set 100:2:credits=10",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := parseSets(sets)
			if err != nil {
				return err
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if !export {
				out, err := app.GPACLI.Calculate(context.Background(), entries)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), out)
				return nil
			}
			if label == "" {
				label = app.Config.Report.Label
			}
			if len(formats) == 0 {
				formats = app.Config.Report.Formats
			}
			out, err := app.GPACLI.Export(context.Background(), label, formats, entries)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), out.Result)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report: %s note=%s", out.Report.ID, out.Report.NotePath)
			if out.Report.WorkbookPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), " workbook=%s", out.Report.WorkbookPath)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	calc.Flags().StringArrayVar(&sets, "set", nil, "raw field value, e.g. 200:1:gpa=9.5 or 200:1:credits=20 (repeatable)")
	calc.Flags().BoolVar(&export, "export", false, "also write a report")
	calc.Flags().StringVar(&label, "label", "", "report label (defaults to config)")
	calc.Flags().StringSliceVar(&formats, "format", nil, "report formats: markdown|xlsx (defaults to config)")
	return calc
}

func newReportCmd(dataDir *string) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Exported report queries"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List exported reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			items, err := app.GPACLI.ListReports(context.Background(), limit)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no reports")
				return nil
			}
			for _, r := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tgpa=%s\tcredits=%s\n", r.ID, r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), r.Label, r.CumulativeDisplay, r.CreditsDisplay)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum reports to list")

	var reportID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show one exported report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(reportID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*dataDir)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			r, err := app.GPACLI.GetReport(context.Background(), reportID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\nlabel: %s\ncreated: %s\ncumulative gpa: %s\ntotal credits: %s\ntotal points: %s\nsemesters: %d\nnote: %s\n",
				r.ID, r.Label, r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), r.CumulativeDisplay, r.CreditsDisplay, r.PointsDisplay, r.ContributingSlots, r.NotePath)
			if r.WorkbookPath != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "workbook: %s\n", r.WorkbookPath)
			}
			return nil
		},
	}
	show.Flags().StringVar(&reportID, "id", "", "report id")

	report.AddCommand(list, show)
	return report
}

// parseSets turns "<level>:<semester>:<field>=<value>" flags into setField
// inputs. The value is kept verbatim, including an empty one.
func parseSets(raw []string) ([]gpadto.EntryInput, error) {
	out := make([]gpadto.EntryInput, 0, len(raw))
	for _, item := range raw {
		target, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: expected <level>:<semester>:<field>=<value>", item)
		}
		parts := strings.Split(strings.TrimSpace(target), ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("--set %q: expected <level>:<semester>:<field>=<value>", item)
		}
		level, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("--set %q: invalid level: %w", item, err)
		}
		semester, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("--set %q: invalid semester: %w", item, err)
		}
		out = append(out, gpadto.EntryInput{Level: level, Semester: semester, Field: parts[2], Value: value})
	}
	return out, nil
}

func printResult(w io.Writer, out gpadto.CalculateOutput) {
	for _, s := range out.Semesters {
		_, _ = fmt.Fprintf(w, "Level %d Semester %d GPA: %s\n", s.Level, s.Semester, s.Display)
	}
	_, _ = fmt.Fprintf(w, "Cumulative GPA: %s\nTotal Credits: %s\nTotal Points: %s\n", out.CumulativeDisplay, out.CreditsDisplay, out.PointsDisplay)
}
