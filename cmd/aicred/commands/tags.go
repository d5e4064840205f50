package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aicred/aicred/internal/config"
	"github.com/aicred/aicred/internal/labels"
)

func NewTagsCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage free-form tags on instances and models",
		Long: `Tags are non-exclusive annotations: a target may carry any number
of them, and one tag may mark many targets.`,
	}

	cmd.AddCommand(
		newTagsListCommand(cfg),
		newTagsAddCommand(cfg),
		newTagsRemoveCommand(cfg),
		newTagsAssignCommand(cfg),
		newTagsUnassignCommand(cfg),
	)
	return cmd
}

func newTagsListCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags and their assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := cfg.Store()
			if err != nil {
				return err
			}
			tagRepo, _, err := st.LoadLabels()
			if err != nil {
				return err
			}

			tags := tagRepo.Tags()
			if len(tags) == 0 {
				fmt.Println("No tags defined")
				return nil
			}

			assignments := tagRepo.Assignments()
			counts := make(map[string]int)
			for _, a := range assignments {
				counts[a.TagID]++
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tTARGETS")
			_, _ = fmt.Fprintln(w, "--\t----\t-------")
			for _, tag := range tags {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", tag.ID, tag.Name, counts[tag.ID])
			}
			_ = w.Flush()
			return nil
		},
	}
}

func newTagsAddCommand(cfg *config.Config) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Define a new tag",
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

			tag := labels.Tag{ID: args[0], Name: name}
			if tag.Name == "" {
				tag.Name = args[0]
			}
			if err := tagRepo.AddTag(tag); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default: the id)")
	return cmd
}

func newTagsRemoveCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag and every assignment of it",
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
			if err := tagRepo.RemoveTag(args[0]); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}
}

func newTagsAssignCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <tag> <instance> [model]",
		Short: "Tag an instance or model",
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

			target := labels.Target{InstanceID: args[1]}
			if len(args) == 3 {
				target.ModelID = args[2]
			}
			if _, err := tagRepo.Assign(args[0], target); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}
}

func newTagsUnassignCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <tag> <instance> [model]",
		Short: "Remove a tag from a target",
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

			target := labels.Target{InstanceID: args[1]}
			if len(args) == 3 {
				target.ModelID = args[2]
			}
			if err := tagRepo.Unassign(args[0], target); err != nil {
				return err
			}
			return st.SaveLabels(tagRepo, labelRepo)
		},
	}
}
