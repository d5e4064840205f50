package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/config"
)

func NewProvidersCommand(cfg *config.Config) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List known GenAI providers",
		Long: `Display the provider catalog: every provider the scanner can
attribute credentials to, with its default endpoint and key shapes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tBASE URL\tAUTH")
			_, _ = fmt.Fprintln(w, "--\t----\t--------\t----")

			for _, id := range catalog.Providers() {
				meta, err := catalog.Lookup(id)
				if err != nil {
					continue
				}
				auth := "none"
				if meta.RequiresAuth {
					auth = meta.ValueType
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", meta.ID, meta.Name, meta.BaseURL, auth)
			}
			_ = w.Flush()

			if verbose {
				for _, id := range catalog.Providers() {
					meta, err := catalog.Lookup(id)
					if err != nil {
						continue
					}
					fmt.Printf("\n%s:\n", meta.ID)
					if meta.Description != "" {
						fmt.Printf("  %s\n", meta.Description)
					}
					if len(meta.EnvVars) > 0 {
						fmt.Printf("  Env vars: %s\n", strings.Join(meta.EnvVars, ", "))
					}
					if len(meta.DefaultModels) > 0 {
						fmt.Printf("  Default models: %s\n", strings.Join(meta.DefaultModels, ", "))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed provider information")

	return cmd
}
