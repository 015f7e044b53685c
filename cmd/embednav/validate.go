package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kamdyne/embednav/internal/core"
	"github.com/spf13/cobra"
)

var (
	validateConfigPath string
	validateJSON       bool
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Config string   `json:"config"`
	Errors []string `json:"errors,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an embednav configuration file",
	Long: `Validate the configuration file without connecting to Discord.

This command checks:
  - YAML syntax
  - Environment variable expansion
  - Required fields and duration formats
  - Security whitelist consistency`,
	Run: func(cmd *cobra.Command, args []string) {
		result := ValidationResult{Valid: true, Config: validateConfigPath}

		if _, err := core.LoadConfig(validateConfigPath); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err.Error())
		}

		if validateJSON {
			output, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Printf("{\"error\": \"failed to marshal json: %v\"}\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		} else if result.Valid {
			fmt.Printf("Configuration %s is valid\n", result.Config)
		} else {
			fmt.Printf("Configuration %s is invalid:\n", result.Config)
			for _, e := range result.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}

		if !result.Valid {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "config.yaml", "Configuration file path")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
