package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"sql-remap/internal/analyzer"
	"sql-remap/internal/report"
	"sql-remap/internal/sqltext"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
)

var csvOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [sql files...]",
	Short: "Analyze SQL statements and report their structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryText(args)
		if err != nil {
			return err
		}

		statements, err := sqltext.Split(text)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			return fmt.Errorf("input contains no statements")
		}

		start := time.Now()

		var bar *uiprogress.Bar
		if len(statements) > 1 {
			uiprogress.Start()
			bar = uiprogress.AddBar(len(statements)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Analyzing: "
			})
		}

		results := make([]analyzer.QueryAnalysis, 0, len(statements))
		for i, stmt := range statements {
			analysis := analyzer.AnalyzeStatement(stmt)
			analysis.QueryNumber = i + 1
			results = append(results, analysis)

			if bar != nil {
				bar.Incr()
			}
		}

		if bar != nil {
			uiprogress.Stop()
		}

		fmt.Println("\n📊 Analysis Report:")
		report.PrintTable(os.Stdout, results)
		report.PrintSummary(os.Stdout, results)

		if csvOut != "" {
			if err := report.SaveCSV(results, csvOut); err != nil {
				return err
			}
			log.Printf("CSV report saved to %s", csvOut)
		}

		log.Printf("Analysis done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&csvOut, "csv", "", "Export the analysis table to a CSV file")
}
