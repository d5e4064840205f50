package commands

import (
	stderrors "errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/workflow"
	"github.com/aicred/aicred/pkg/keyfinder"
)

func NewSetupCommand(cfg *config.Config) *cobra.Command {
	var (
		home         string
		yes          bool
		probe        bool
		probeTimeout int
		skipLabels   bool
		useKeyring   bool
		onExisting   string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Scan and curate credentials into provider instances",
		Long: `Run the full curation workflow: scan for credentials, review the
findings, configure one instance per provider, optionally label them,
and persist the result. Cancelling at any point writes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}

			var resolution workflow.Resolution
			switch onExisting {
			case "":
			case "merge":
				resolution = workflow.ResolutionMerge
			case "replace":
				resolution = workflow.ResolutionReplace
			default:
				return errors.InvalidInputError{
					Field:      "on-existing",
					Value:      onExisting,
					Message:    "must be 'merge' or 'replace'",
					Suggestion: "Use --on-existing=merge to keep current instances",
				}
			}

			var collab workflow.Collaborator
			if yes || cfg.NonInteractive {
				collab = workflow.AutoCollaborator{}
			} else {
				collab = newTerminalCollaborator(os.Stdin, os.Stdout)
			}

			var discoverer workflow.ModelDiscoverer = workflow.NoopDiscoverer{}
			if probe {
				httpDisc := workflow.NewHTTPDiscoverer()
				if probeTimeout > 0 {
					httpDisc.Client.Timeout = time.Duration(probeTimeout) * time.Second
				}
				discoverer = httpDisc
			}

			session, err := workflow.NewSession(workflow.Config{
				Scan:         keyfinder.ScanOptions{HomeDir: home},
				Collaborator: collab,
				Store:        st,
				Discoverer:   discoverer,
				Logger:       cfg.Logger,
				UseKeyring:   useKeyring,
				SkipLabels:   skipLabels,
				Resolution:   resolution,
			})
			if err != nil {
				return err
			}

			err = session.Run(cmd.Context())
			if stderrors.Is(err, workflow.ErrCancelled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&home, "home", "", "Directory to scan (default: your home directory)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Accept all defaults without prompting")
	cmd.Flags().BoolVar(&probe, "probe", false, "Query each provider's models endpoint with the discovered key")
	cmd.Flags().IntVar(&probeTimeout, "probe-timeout", 10, "Probe timeout in seconds")
	cmd.Flags().BoolVar(&skipLabels, "skip-labels", false, "Skip the labeling step")
	cmd.Flags().BoolVar(&useKeyring, "use-keyring", false, "Store raw values in the OS keyring instead of the instances file")
	cmd.Flags().StringVar(&onExisting, "on-existing", "", "What to do with existing configuration: merge or replace")

	return cmd
}
