package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/registry"
)

func NewInstancesCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Manage configured provider instances",
	}

	cmd.AddCommand(
		newInstancesListCommand(cfg),
		newInstancesShowCommand(cfg),
		newInstancesRemoveCommand(cfg),
		newInstancesActivateCommand(cfg, true),
		newInstancesActivateCommand(cfg, false),
	)
	return cmd
}

func newInstancesListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := loadInstances(cfg)
			if err != nil {
				return err
			}
			if collection.Len() == 0 {
				fmt.Println("No instances configured. Run 'aicred setup' to create some.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tTYPE\tACTIVE\tKEYS\tMODELS")
			_, _ = fmt.Fprintln(w, "--\t----\t----\t------\t----\t------")
			for _, inst := range collection.All() {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\n",
					inst.ID, inst.DisplayName, inst.ProviderType, inst.Active,
					len(inst.Keys), len(inst.Models))
			}
			_ = w.Flush()
			return nil
		},
	}
}

func newInstancesShowCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one instance with credential values redacted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, err := loadInstances(cfg)
			if err != nil {
				return err
			}
			inst, ok := collection.Get(args[0])
			if !ok {
				return errors.NotFoundError{
					Resource:   "instance",
					ID:         args[0],
					Suggestion: "Run 'aicred instances list' to see configured instances",
				}
			}

			// Raw values never reach the terminal.
			shown := *inst
			shown.Keys = make([]registry.Credential, len(inst.Keys))
			copy(shown.Keys, inst.Keys)
			for i := range shown.Keys {
				shown.Keys[i].Value = ""
			}

			data, err := yaml.Marshal(&shown)
			if err != nil {
				return errors.SerializationError{Format: "yaml", Err: err}
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func newInstancesRemoveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			collection, err := st.LoadInstances()
			if err != nil {
				return err
			}
			if err := collection.Remove(args[0]); err != nil {
				return err
			}
			if err := st.SaveInstances(collection); err != nil {
				return err
			}
			cfg.Logger.Info("Removed instance %s", args[0])
			return nil
		},
	}
}

func newInstancesActivateCommand(cfg *config.Config, active bool) *cobra.Command {
	use, short := "activate <id>", "Mark an instance active"
	if !active {
		use, short = "deactivate <id>", "Mark an instance inactive"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			collection, err := st.LoadInstances()
			if err != nil {
				return err
			}
			if err := collection.SetActive(args[0], active); err != nil {
				return err
			}
			return st.SaveInstances(collection)
		},
	}
}

func loadInstances(cfg *config.Config) (*registry.ProviderInstances, error) {
	st, err := cfg.Store()
	if err != nil {
		return nil, err
	}
	return st.LoadInstances()
}
