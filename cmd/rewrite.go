package cmd

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"sql-remap/internal/mapping"
	"sql-remap/internal/rewrite"
	"sql-remap/internal/sqltext"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	mappingPath string
	mappingMode string
	sheetName   string
	outPath     string
	showMapping bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [sql files...]",
	Short: "Rewrite SQL identifiers using a mapping spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Mapping source strategy: Flag > active config profile.
		path := mappingPath
		sheet := viper.GetString("settings.sheet")
		modeName := viper.GetString("settings.mode")

		if path == "" {
			profile, err := GetActiveMappingConfig()
			if err != nil {
				return fmt.Errorf("no --mapping flag and %w", err)
			}
			path = profile.Path
			if profile.Sheet != "" {
				sheet = profile.Sheet
			}
			if profile.Mode != "" {
				modeName = profile.Mode
			}
			fmt.Printf("🧭 Using mapping profile %q (%s)\n", profile.Name, path)
		}

		mode, err := mapping.ParseMode(modeName)
		if err != nil {
			return err
		}

		table, err := mapping.Load(path, sheet, mode)
		if err != nil {
			return err
		}
		if len(table.Rows) == 0 {
			return fmt.Errorf("mapping file %s holds no usable rules", path)
		}
		log.Printf("Loaded %d mapping rule(s) in %s mode", len(table.Rows), table.Mode)

		if showMapping {
			printMappingPreview(table)
		}

		text, err := readQueryText(args)
		if err != nil {
			return err
		}

		statements, err := sqltext.Split(text)
		if err != nil {
			return err
		}

		start := time.Now()

		var bar *uiprogress.Bar
		if len(statements) > 1 {
			uiprogress.Start()
			bar = uiprogress.AddBar(len(statements)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return "Rewriting: "
			})
		}

		result, err := rewrite.Rewrite(text, table, func() {
			if bar != nil {
				bar.Incr()
			}
		})

		if bar != nil {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(result.Output+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			log.Printf("Rewritten query saved to %s", outPath)
		} else {
			fmt.Println(result.Output)
		}

		// Diff table of what actually changed.
		if len(result.Applied) == 0 {
			fmt.Println("\nNo mapping rules matched the input.")
		} else {
			fmt.Printf("\n📝 Applied renames (%d):\n", len(result.Applied))
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Original\tReplacement")
			for _, r := range result.Applied {
				fmt.Fprintf(tw, "%s\t%s\n", r.From, r.To)
			}
			tw.Flush()
		}

		log.Printf("Rewrite done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func printMappingPreview(table *mapping.Table) {
	fmt.Printf("\n📋 Mapping Preview (%d rules):\n", len(table.Rows))
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if table.Mode == mapping.ModeTableAndField {
		fmt.Fprintln(tw, "Source Table\tTarget Table\tSource Field\tTarget Field")
		for _, row := range table.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.SourceTable, row.TargetTable, row.SourceField, row.TargetField)
		}
	} else {
		fmt.Fprintln(tw, "FieldSQL\tMap_Field\ttableName")
		for _, row := range table.Rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.SourceField, row.TargetField, row.SourceTable)
		}
	}
	tw.Flush()
	fmt.Println()
}

func init() {
	RootCmd.AddCommand(rewriteCmd)

	rewriteCmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "Mapping spreadsheet (xlsx or csv)")
	rewriteCmd.Flags().StringVar(&mappingMode, "mode", "", "Mapping mode: flat or table (overrides config)")
	rewriteCmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name (default: first sheet)")
	rewriteCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the rewritten query to a file")
	rewriteCmd.Flags().BoolVar(&showMapping, "show-mapping", false, "Print the loaded mapping table before rewriting")

	viper.BindPFlag("settings.mode", rewriteCmd.Flags().Lookup("mode"))
	viper.BindPFlag("settings.sheet", rewriteCmd.Flags().Lookup("sheet"))
	viper.SetDefault("settings.mode", string(mapping.ModeFlatField))
}
