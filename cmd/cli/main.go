package main

import (
	"context"
	"fmt"
	"os"

	"gocompare/adapters/excel"
	"gocompare/internal/config"
	"gocompare/internal/container"
	"gocompare/internal/report"
	"gocompare/ports"
	"gocompare/ui/chart"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "gocompare",
		Short:        "Compare single vs dual submission scores per question group",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newPlotCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var input, output, csvOut string
	var workers int
	var useDB bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Pool summary rows, run Welch's t-test per group and write the results",
		Long: `Read summary rows (QuestionGroupID, Submission Approach, Average Score,
Standard Deviation, Num Students), compare Single against Dual per group and
write the result table.

Example: gocompare run --input scores.xlsx --output final_t_test_results.xlsx --csv results.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, input, workers)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Data.OutputFile
			}
			return runCompare(cmd.Context(), cfg, output, csvOut, useDB)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input table (.xlsx or .csv); defaults to INPUT_FILE")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Result table (.xlsx or .csv); defaults to OUTPUT_FILE")
	cmd.Flags().StringVar(&csvOut, "csv", "", "Also write the results as CSV to this path")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent group workers; defaults to WORKERS")
	cmd.Flags().BoolVar(&useDB, "db", false, "Also store the run in Postgres (DATABASE_URL)")

	return cmd
}

func runCompare(ctx context.Context, cfg *config.Config, output, csvOut string, useDB bool) error {
	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	sinks := []ports.ResultSink{excel.NewResultWriter(output)}
	if csvOut != "" {
		sinks = append(sinks, excel.NewResultWriter(csvOut))
	}
	if useDB {
		if !cfg.Database.Enabled() {
			return fmt.Errorf("--db requires DATABASE_URL")
		}
		if err := c.InitWithDatabase(ctx); err != nil {
			return err
		}
		sinks = append(sinks, c.Repository)
	}

	result, err := c.Service.Execute(ctx, excel.NewDataReader(cfg.Data.InputFile), sinks...)
	if err != nil {
		return err
	}

	fmt.Printf("Final t-test results with interpretation have been saved to '%s'.\n", output)
	if csvOut != "" {
		fmt.Printf("CSV copy saved to '%s'.\n", csvOut)
	}
	if useDB {
		fmt.Printf("Run %s stored in the database.\n", result.Manifest.RunID)
	}
	return nil
}

func newPlotCmd() *cobra.Command {
	var results, svgOut string
	var width int

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart mean score differences (Dual - Single) from a result table",
		Long: `Draw one horizontal bar per question group, colored by verdict.
Without --svg the chart is printed to the terminal.

Example: gocompare plot --results results.csv --svg chart.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := excel.ReadResults(cmd.Context(), results)
			if err != nil {
				return err
			}
			c := chart.Build(records)

			if svgOut == "" {
				return chart.RenderTerminal(os.Stdout, c, width)
			}
			f, err := os.Create(svgOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", svgOut, err)
			}
			if err := chart.RenderSVG(f, c); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Printf("Chart with %d groups saved to '%s'.\n", len(c.Bars), svgOut)
			return nil
		},
	}

	cmd.Flags().StringVarP(&results, "results", "r", "results.csv", "Result table written by 'run'")
	cmd.Flags().StringVar(&svgOut, "svg", "", "Write an SVG chart to this path instead of the terminal")
	cmd.Flags().IntVar(&width, "width", 60, "Bar width in terminal columns")

	return cmd
}

func newReportCmd() *cobra.Command {
	var input string
	var workers int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the comparison and print a markdown summary",
		Long: `Run the comparison without writing a result table and print verdict
tallies, p-value summary, largest effects and the result table as markdown.

Example: gocompare report --input scores.csv > report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, input, workers)
			if err != nil {
				return err
			}
			c, err := container.New(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Service.Execute(cmd.Context(), excel.NewDataReader(cfg.Data.InputFile))
			if err != nil {
				return err
			}
			fmt.Print(report.Markdown(result.Manifest, result.Records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input table (.xlsx or .csv); defaults to INPUT_FILE")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent group workers; defaults to WORKERS")

	return cmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command, input string, workers int) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if input != "" {
		cfg.Data.InputFile = input
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cfg.Data.InputFile == "" {
		return nil, fmt.Errorf("no input file: pass --input or set INPUT_FILE")
	}
	return cfg, nil
}
