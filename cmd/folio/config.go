package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/scholarsite/folio/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  folio config                                   # Show all config
  folio config bibliography                      # Get specific value
  folio config bibliography https://x/pubs.bib   # Set value

Keys:
  bibliography      URL or path of the BibTeX file
  license           URL or path of the license Markdown
  contact-endpoint  Form endpoint that receives contact submissions
  owner-name        Name shown after publication titles
  default-image     Image for publications without one
  cache-path        SQLite publication cache
  listen-addr       Address for 'folio serve'
  rate-limit        Outbound HTTP requests per second`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	// No args: show all config
	if len(args) == 0 {
		values := cfg.Values()
		if humanOutput {
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%-17s %s\n", k+":", values[k])
			}
			return nil
		}
		return outputJSON(values)
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitConfigError, "%v (valid: %v)", err, config.Keys())
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	// Two args: set value in the file only, without env overrides baked in
	fileCfg, err := config.LoadFile(resolvedConfigPath())
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := fileCfg.Set(key, args[1]); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			exitWithError(ExitConfigError, "%v (valid: %v)", err, config.Keys())
		}
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := fileCfg.Save(resolvedConfigPath()); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Set %s = %s\n", key, args[1])
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: args[1]})
}
