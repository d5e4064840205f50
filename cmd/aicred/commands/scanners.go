package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/config"
)

func NewScannersCommand(cfg *config.Config) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "scanners",
		Short: "List application config scanners",
		Long: `Display the applications whose config files the scanner knows how
to locate and parse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "SCANNER\tAPPLICATION\tFORMAT")
			_, _ = fmt.Fprintln(w, "-------\t-----------\t------")
			for _, rule := range catalog.AppRules() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", rule.Name, rule.AppName, rule.Format)
			}
			_ = w.Flush()

			if verbose {
				for _, rule := range catalog.AppRules() {
					fmt.Printf("\n%s:\n", rule.Name)
					for _, path := range rule.Paths("~") {
						fmt.Printf("  %s\n", path)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show the paths each scanner checks")

	return cmd
}
