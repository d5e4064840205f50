package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/permissions"
)

// credentialFiles are the home-relative files the doctor audits for
// loose permissions. Kept in sync with what the scanner reads.
var credentialFiles = []string{
	".env",
	".env.local",
	".config/aicred/credentials.env",
}

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var home string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check stored configuration and credential file hygiene",
		Long: `Verify that the persisted documents load cleanly and that files
holding credentials are not readable by other users.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}

			healthy := true

			if st.Exists() {
				if _, err := st.LoadInstances(); err != nil {
					cfg.Logger.Error("Instances document: %v", err)
					healthy = false
				} else {
					cfg.Logger.Info("Instances document loads cleanly")
				}
				if _, _, err := st.LoadLabels(); err != nil {
					cfg.Logger.Error("Labels document: %v", err)
					healthy = false
				} else {
					cfg.Logger.Info("Labels document loads cleanly")
				}
			} else {
				cfg.Logger.Info("No configuration yet; run 'aicred setup' to create one")
			}

			if home == "" {
				home, _ = os.UserHomeDir()
			}

			paths := []string{st.Dir(), st.InstancesPath(), st.LabelsPath()}
			if home != "" {
				for _, rel := range credentialFiles {
					paths = append(paths, filepath.Join(home, rel))
				}
			}

			findings := permissions.Audit(paths)
			for _, finding := range findings {
				cfg.Logger.Warn("%s (%s)", finding.String(), finding.Suggestion)
			}
			if len(findings) == 0 {
				cfg.Logger.Info("Credential file permissions look good")
			}

			if healthy {
				cfg.Logger.Info("All checks passed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&home, "home", "", "Home directory to audit (default: your home directory)")
	return cmd
}
