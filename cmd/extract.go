package cmd

import (
	"fmt"

	"sql-remap/internal/analyzer"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [sql files...]",
	Short: "List the distinct tables and fields of a query batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readQueryText(args)
		if err != nil {
			return err
		}

		tables, fields := analyzer.ExtractTablesAndFields(text)

		fmt.Printf("Tables (%d):\n", len(tables))
		for _, t := range tables {
			fmt.Printf("  - %s\n", t)
		}

		fmt.Printf("Fields (%d):\n", len(fields))
		for _, f := range fields {
			fmt.Printf("  - %s\n", f)
		}

		return nil
	},
}

func init() {
	RootCmd.AddCommand(extractCmd)
}
