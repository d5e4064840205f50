package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/pkg/keyfinder"
)

func NewScanCommand(cfg *config.Config) *cobra.Command {
	var (
		home        string
		showValues  bool
		maxFileSize int64
		only        []string
		exclude     []string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the home directory for GenAI credentials",
		Long: `Scan well-known env files and agent configuration files for API
keys, classify each finding by provider and confidence, and report the
deduplicated results. Nothing is written; scanning is read-only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := keyfinder.Scan(keyfinder.ScanOptions{
				HomeDir:           home,
				IncludeFullValues: showValues,
				MaxFileSize:       maxFileSize,
				OnlyProviders:     only,
				ExcludeProviders:  exclude,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printScanResult(cfg, result, showValues)
			return nil
		},
	}

	cmd.Flags().StringVar(&home, "home", "", "Directory to scan (default: your home directory)")
	cmd.Flags().BoolVar(&showValues, "full-values", false, "Include full credential values in the output")
	cmd.Flags().Int64Var(&maxFileSize, "max-file-size", 0, "Skip files larger than this many bytes")
	cmd.Flags().StringSliceVar(&only, "provider", nil, "Restrict the scan to these providers")
	cmd.Flags().StringSliceVar(&exclude, "exclude-provider", nil, "Skip these providers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full result as JSON")

	return cmd
}

func printScanResult(cfg *config.Config, result *keyfinder.ScanResult, showValues bool) {
	if len(result.Keys) == 0 {
		fmt.Println("No credentials found")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "PROVIDER\tCONFIDENCE\tTYPE\tVALUE\tSOURCE")
		_, _ = fmt.Fprintln(w, "--------\t----------\t----\t-----\t------")
		for _, key := range result.Keys {
			shown := key.Redacted
			if showValues && key.Value != "" {
				shown = key.Value
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				key.Provider, key.Confidence, key.ValueType, shown, key.Source)
		}
		_ = w.Flush()
	}

	if len(result.ConfigInstances) > 0 {
		fmt.Printf("\nApplication configs (%d):\n", len(result.ConfigInstances))
		for _, inst := range result.ConfigInstances {
			fmt.Printf("  %s: %s (%d key(s))\n", inst.AppName, inst.ConfigPath, len(inst.Keys))
		}
	}

	for _, skipped := range result.SkippedFiles {
		cfg.Logger.Debug("Skipped %s: %s", skipped.Path, skipped.Reason)
	}
	for _, warning := range result.Warnings {
		cfg.Logger.Warn("%s", warning)
	}
}
