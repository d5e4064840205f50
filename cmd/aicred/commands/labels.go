package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/labels"
)

func NewLabelsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage exclusive labels on instances and models",
		Long: `A label marks a role, like "production" or "default". Each instance
or model carries at most one label; assigning a new one replaces it.`,
	}

	cmd.AddCommand(
		newLabelsListCommand(cfg),
		newLabelsAddCommand(cfg),
		newLabelsRemoveCommand(cfg),
		newLabelsAssignCommand(cfg),
		newLabelsUnassignCommand(cfg),
	)
	return cmd
}

func newLabelsAddCommand(cfg *config.Config) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Define a new label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			tagRepo, labelRepo, err := st.LoadLabels()
			if err != nil {
				return err
			}
			if err := labelRepo.AddLabel(labels.Label{Name: args[0], Description: description}); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "What the label marks")
	return cmd
}

func newLabelsRemoveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a label and its assignments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			tagRepo, labelRepo, err := st.LoadLabels()
			if err != nil {
				return err
			}
			if err := labelRepo.RemoveLabel(args[0]); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}
}

func newLabelsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labels and their assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			_, labelRepo, err := st.LoadLabels()
			if err != nil {
				return err
			}

			assignments := labelRepo.Assignments()
			if len(assignments) == 0 {
				fmt.Println("No labels assigned")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "LABEL\tINSTANCE\tMODEL")
			_, _ = fmt.Fprintln(w, "-----\t--------\t-----")
			for _, a := range assignments {
				model := a.ModelID
				if model == "" {
					model = "-"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.LabelName, a.InstanceID, model)
			}
			_ = w.Flush()
			return nil
		},
	}
}

func newLabelsAssignCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <label> <instance> [model]",
		Short: "Assign a label, replacing any label the target holds",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			tagRepo, labelRepo, err := st.LoadLabels()
			if err != nil {
				return err
			}

			name := args[0]
			target := labels.Target{InstanceID: args[1]}
			if len(args) == 3 {
				target.ModelID = args[2]
			}

			if _, ok := labelRepo.Get(name); !ok {
				if err := labelRepo.AddLabel(labels.Label{Name: name}); err != nil {
					return err
				}
			}
			if _, err := labelRepo.Assign(name, target); err != nil {
				return err
			}
			if err := st.SaveLabels(tagRepo, labelRepo); err != nil {
				return err
			}
			cfg.Logger.Info("Labeled %s as %q", args[1], name)
			return nil
		},
	}
}

func newLabelsUnassignCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <instance> [model]",
		Short: "Remove the label from a target",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			tagRepo, labelRepo, err := st.LoadLabels()
			if err != nil {
				return err
			}

			target := labels.Target{InstanceID: args[0]}
			if len(args) == 2 {
				target.ModelID = args[1]
			}
			if err := labelRepo.Unassign(target); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}
}
