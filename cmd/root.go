package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	queryText string
)

var RootCmd = &cobra.Command{
	Use:   "sql-remap",
	Short: "A SQL analysis and rewriting tool",
	Long: `
  ____   ___  _       ____  _____ __  __    _    ____
 / ___| / _ \| |     |  _ \| ____|  \/  |  / \  |  _ \
 \___ \| | | | |     | |_) |  _| | |\/| | / _ \ | |_) |
  ___) | |_| | |___  |  _ <| |___| |  | |/ ___ \|  __/
 |____/ \__\_\_____| |_| \_\_____|_|  |_/_/   \_\_|

SQL REMAP 🧭 - SQL Query Analyzer & Rewriter

Analyzes SQL statements (tables, fields, joins, complexity) and
rewrites identifiers from a spreadsheet mapping table.
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./sql-remap.yaml)")
	RootCmd.PersistentFlags().StringVarP(&queryText, "query", "q", "", "SQL text to process (instead of files or stdin)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("sql-remap")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// readQueryText resolves the SQL input: the --query flag wins, then
// file arguments (concatenated in order), then stdin.
func readQueryText(args []string) (string, error) {
	if queryText != "" {
		return queryText, nil
	}

	if len(args) > 0 {
		var parts []string
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("failed to read %s: %w", path, err)
			}
			parts = append(parts, string(data))
		}
		return strings.Join(parts, "\n"), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("no SQL input (pass files, --query, or pipe to stdin)")
	}
	return string(data), nil
}
