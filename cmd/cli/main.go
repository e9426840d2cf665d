package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"survivalvolume/adapters/excel"
	"survivalvolume/adapters/lifetable"
	"survivalvolume/adapters/report"
	"survivalvolume/app"
	"survivalvolume/domain/survival"
	"survivalvolume/internal"
	"survivalvolume/internal/config"
	"survivalvolume/internal/errors"
	"survivalvolume/internal/extract"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

// globalFlags are bound to the root command and override the environment
type globalFlags struct {
	envFile   string
	logLevel  string
	endpoint  float64
	threshold int
	ci        float64
	alpha     float64
	method    string
	layout    string
	format    string
	output    string
}

var (
	flags  globalFlags
	cfg    *config.Config
	logger = internal.DefaultLogger.With("cli")
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		err = exitError(err)
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

// exitError codes errors raised by cobra's own flag and argument checks as
// invalid input
func exitError(err error) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.WithCode(errors.CodeInvalidInput, err)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "survivalvolume",
		Short:         "Tumour volume survival analysis for Studylog workbook exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd.Flags())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", ".env", "Optional .env file read before the environment")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: ERROR|WARN|INFO|DEBUG|TRACE (default LOG_LEVEL)")
	pf.Float64Var(&flags.endpoint, "endpoint", 700, "Tumour volume at which the endpoint event occurs")
	pf.IntVar(&flags.threshold, "threshold", 2, "Time points need more than this many volumes for a mean")
	pf.Float64Var(&flags.ci, "ci", 0.95, "Confidence level of the interval band")
	pf.Float64Var(&flags.alpha, "alpha", 0.05, "Type 1 error for log-rank comparisons")
	pf.StringVar(&flags.method, "method", "t", "Interval method: t|normal")
	pf.StringVarP(&flags.layout, "layout", "l", string(app.LayoutPrism), "Workbook layout: prism|absolute")
	pf.StringVarP(&flags.format, "format", "f", "", "Report format: "+strings.Join(report.Formats(), "|"))
	pf.StringVarP(&flags.output, "output", "o", "", "Write output to a file instead of stdout")

	rootCmd.AddCommand(
		newReportCmd(),
		newTablesCmd(),
		newCompareCmd(),
		newBatchCmd(),
		newSheetsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads .env and the environment, then applies flags the user set
func loadConfig(fs *pflag.FlagSet) error {
	if err := config.LoadDotEnv(flags.envFile); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}

	if fs.Changed("endpoint") {
		loaded.Analysis.Endpoint = flags.endpoint
	}
	if fs.Changed("threshold") {
		loaded.Analysis.Threshold = flags.threshold
	}
	if fs.Changed("ci") {
		loaded.Analysis.CI = flags.ci
	}
	if fs.Changed("alpha") {
		loaded.Analysis.Alpha = flags.alpha
	}
	if fs.Changed("method") {
		loaded.Analysis.Method = survival.Method(strings.ToLower(flags.method))
	}
	if fs.Changed("format") {
		loaded.Report.Format = strings.ToLower(flags.format)
	}
	if fs.Changed("log-level") {
		loaded.Logging.Level = flags.logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(loaded.Logging.Level))
	cfg = loaded
	return nil
}

func newService() *app.StudyService {
	reader := excel.NewGridReader(excel.DefaultReaderConfig())
	return app.NewStudyService(reader, lifetable.NewEstimator(), cfg)
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [workbook]",
		Short: "Analyse a workbook and render the study report",
		Long: `Extract every group of a workbook, compute mean volume intervals and
Kaplan-Meier survival, compare groups pairwise with the log-rank test and
render the result.

Example: survivalvolume report study.xlsx --layout absolute --format html -o study.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), args[0])
		},
	}
}

func runReport(ctx context.Context, path string) error {
	layout, err := app.ParseLayout(flags.layout)
	if err != nil {
		return err
	}
	r, err := newService().Analyze(ctx, path, layout)
	if err != nil {
		return err
	}
	return writeOutput(flags.output, func(w io.Writer) error {
		return renderReport(w, r)
	})
}

func renderReport(w io.Writer, r *survival.StudyReport) error {
	renderer, err := report.NewRenderer(cfg.Report.Format)
	if err != nil {
		return err
	}
	return renderer.Render(w, r)
}

func newTablesCmd() *cobra.Command {
	var standardise bool

	cmd := &cobra.Command{
		Use:   "tables [workbook]",
		Short: "List the group tables extracted from a workbook",
		Long: `Show which groups a workbook yields, their size and any blocks that were
skipped, without running the analysis.

Example: survivalvolume tables study.xlsx --layout prism`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("standardise") {
				cfg.Layout.StandardiseDays = standardise
			}
			return runTables(cmd.Context(), args[0])
		},
	}

	cmd.Flags().BoolVar(&standardise, "standardise", true, "Renumber absolute layout days on the 3/4 day schedule")
	return cmd
}

func runTables(ctx context.Context, path string) error {
	layout, err := app.ParseLayout(flags.layout)
	if err != nil {
		return err
	}
	ext, err := newService().Load(ctx, path, layout)
	if err != nil {
		return err
	}

	return writeOutput(flags.output, func(w io.Writer) error {
		fmt.Fprintf(w, "📋 %s (%s): %d groups\n", path, layout, ext.Len())
		for _, g := range ext.Groups() {
			first, last := "", ""
			if g.Table.NumRows() > 0 {
				first = g.Table.Index[0].Label
				last = g.Table.Index[g.Table.NumRows()-1].Label
			}
			fmt.Fprintf(w, "  %-24s %3d individuals  %3d time points  days %s..%s\n",
				g.Name, g.Table.NumCols(), g.Table.NumRows(), first, last)
		}
		printSkipped(w, ext)
		return nil
	})
}

func printSkipped(w io.Writer, ext *extract.Extraction) {
	skipped := ext.Skipped()
	if len(skipped) == 0 && len(ext.Overwritten) == 0 {
		return
	}
	fmt.Fprintf(w, "\n⚠️  %d skipped blocks\n", len(skipped))
	for _, s := range skipped {
		fmt.Fprintf(w, "  rows %d-%d %s: %s\n", s.FirstRow, s.LastRow, s.Name, s.Reason)
	}
	for _, name := range ext.Overwritten {
		fmt.Fprintf(w, "  %q was overwritten by a later block\n", name)
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [workbook] [group-a] [group-b]",
		Short: "Run a log-rank test between two groups",
		Long: `Compare the survival of two groups of a workbook with the Mantel-Cox
log-rank test at the configured alpha.

Example: survivalvolume compare study.xlsx Vehicle "Treatment A" --alpha 0.01`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), args[0], args[1], args[2])
		},
	}
}

func runCompare(ctx context.Context, path, groupA, groupB string) error {
	layout, err := app.ParseLayout(flags.layout)
	if err != nil {
		return err
	}
	svc := newService()
	r, err := svc.Analyze(ctx, path, layout)
	if err != nil {
		return err
	}
	res, err := svc.Compare(r, groupA, groupB)
	if err != nil {
		return err
	}

	return writeOutput(flags.output, func(w io.Writer) error {
		fmt.Fprintf(w, "📊 Log-rank: %s vs %s\n", res.GroupA, res.GroupB)
		fmt.Fprintf(w, "  observed/expected %s: %d / %.3f\n", res.GroupA, res.ObservedA, res.ExpectedA)
		fmt.Fprintf(w, "  observed/expected %s: %d / %.3f\n", res.GroupB, res.ObservedB, res.ExpectedB)
		fmt.Fprintf(w, "  test statistic: %.4f\n", res.TestStatistic)
		fmt.Fprintf(w, "  p-value: %.4g (alpha %.3g)\n", res.PValue, res.Alpha)
		if res.Significant {
			fmt.Fprintln(w, "  ✅ survival differs significantly")
		} else {
			fmt.Fprintln(w, "  no significant difference")
		}
		return nil
	})
}

func newBatchCmd() *cobra.Command {
	var outDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch [workbooks...]",
		Short: "Analyse several workbooks in parallel",
		Long: `Analyse every workbook concurrently and write one report per workbook
into the output directory, named after the workbook.

Example: survivalvolume batch studies/*.xlsx --out-dir reports --format json --workers 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args, outDir, workers)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "reports", "Directory receiving the rendered reports")
	cmd.Flags().IntVar(&workers, "workers", 4, "Maximum workbooks analysed at once (0 for no limit)")
	return cmd
}

func runBatch(ctx context.Context, paths []string, outDir string, workers int) error {
	layout, err := app.ParseLayout(flags.layout)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", outDir)
	}

	start := time.Now()
	reports, err := newService().AnalyzeAll(ctx, paths, layout, workers)
	if err != nil {
		return err
	}

	sources := make([]string, len(reports))
	for i, r := range reports {
		sources[i] = r.Source
	}
	names := reportNames(sources, report.Extension(cfg.Report.Format))

	for i, r := range reports {
		target := filepath.Join(outDir, names[i])
		if err := writeOutput(target, func(w io.Writer) error { return renderReport(w, r) }); err != nil {
			return err
		}
		fmt.Printf("  %s → %s (%d groups)\n", r.Source, target, len(r.Groups))
	}
	fmt.Printf("✅ %d workbooks analysed in %v\n", len(reports), time.Since(start).Round(time.Millisecond))
	return nil
}

// reportNames names each source's report after its workbook. Workbooks that
// share a base name get a numeric suffix so no report overwrites another.
func reportNames(sources []string, ext string) []string {
	names := make([]string, len(sources))
	taken := make(map[string]bool, len(sources))
	for i, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		name := base + ext
		for k := 2; taken[strings.ToLower(name)]; k++ {
			name = fmt.Sprintf("%s-%d%s", base, k, ext)
		}
		if name != base+ext {
			logger.Warn("%s shares its name with an earlier workbook, writing %s", src, name)
		}
		taken[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [workbook]",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheets, err := excel.NewGridReader(excel.DefaultReaderConfig()).Sheets(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, s := range sheets {
				fmt.Println(s)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

// writeOutput sends fn's output to path, or stdout when path is empty
func writeOutput(path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
