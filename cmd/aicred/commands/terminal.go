package commands

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aicred/aicred/internal/labels"
	"github.com/aicred/aicred/internal/registry"
	"github.com/aicred/aicred/internal/workflow"
	"github.com/aicred/aicred/pkg/keyfinder"
)

// terminalCollaborator drives the curation workflow from a terminal.
// Every prompt has a default so enter-enter-enter matches auto mode.
type terminalCollaborator struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalCollaborator(in io.Reader, out io.Writer) *terminalCollaborator {
	return &terminalCollaborator{in: bufio.NewReader(in), out: out}
}

func (t *terminalCollaborator) prompt(question, fallback string) (string, error) {
	if fallback != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", question, fallback)
	} else {
		fmt.Fprintf(t.out, "%s: ", question)
	}
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", workflow.ErrCancelled
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

func (t *terminalCollaborator) ReviewKeys(result *keyfinder.ScanResult, preselected []string) ([]string, error) {
	selected := make(map[string]bool, len(preselected))
	for _, hash := range preselected {
		selected[hash] = true
	}

	fmt.Fprintf(t.out, "\nDiscovered %d credential(s):\n", len(result.Keys))
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "  #\tPROVIDER\tCONFIDENCE\tVALUE\tSOURCE")
	for i, key := range result.Keys {
		mark := " "
		if selected[key.Hash] {
			mark = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %d\t%s\t%s\t%s\t%s\n",
			mark, i+1, key.Provider, key.Confidence, key.Redacted, key.Source)
	}
	_ = w.Flush()

	answer, err := t.prompt("Keep which keys? (all, none, or numbers like 1,3)", "marked")
	if err != nil {
		return nil, err
	}

	switch answer {
	case "marked":
		return preselected, nil
	case "all":
		hashes := make([]string, 0, len(result.Keys))
		for _, key := range result.Keys {
			hashes = append(hashes, key.Hash)
		}
		return hashes, nil
	case "none":
		return nil, nil
	}

	var hashes []string
	for _, field := range strings.Split(answer, ",") {
		n, convErr := strconv.Atoi(strings.TrimSpace(field))
		if convErr != nil || n < 1 || n > len(result.Keys) {
			fmt.Fprintf(t.out, "Ignoring %q\n", field)
			continue
		}
		hashes = append(hashes, result.Keys[n-1].Hash)
	}
	return hashes, nil
}

func (t *terminalCollaborator) ConfigureInstance(draft workflow.InstanceDraft) (workflow.InstanceDraft, error) {
	fmt.Fprintf(t.out, "\nConfiguring %s (%d key(s), %d model(s))\n",
		draft.ProviderType, len(draft.KeyHashes), len(draft.Models))

	var err error
	if draft.ID, err = t.prompt("Instance id", draft.ID); err != nil {
		return draft, err
	}
	if draft.DisplayName, err = t.prompt("Display name", draft.DisplayName); err != nil {
		return draft, err
	}
	if draft.BaseURL, err = t.prompt("Base URL", draft.BaseURL); err != nil {
		return draft, err
	}
	return draft, nil
}

func (t *terminalCollaborator) ChooseLabels(instances []*registry.ProviderInstance) ([]workflow.LabelChoice, error) {
	var choices []workflow.LabelChoice
	for _, inst := range instances {
		answer, err := t.prompt(fmt.Sprintf("Label for %s (empty to skip)", inst.ID), "")
		if err != nil {
			return nil, err
		}
		if answer == "" {
			continue
		}
		choices = append(choices, workflow.LabelChoice{
			LabelName: answer,
			Target:    labels.Target{InstanceID: inst.ID},
		})
	}
	return choices, nil
}

func (t *terminalCollaborator) ResolveExisting() (workflow.Resolution, error) {
	answer, err := t.prompt("Existing configuration found. merge, replace, or cancel?", "merge")
	if err != nil {
		return workflow.ResolutionCancel, err
	}
	switch strings.ToLower(answer) {
	case "merge", "m":
		return workflow.ResolutionMerge, nil
	case "replace", "r":
		return workflow.ResolutionReplace, nil
	default:
		return workflow.ResolutionCancel, nil
	}
}

func (t *terminalCollaborator) ConfirmPersist(summary workflow.Summary) (bool, error) {
	fmt.Fprintf(t.out, "\nAbout to write %d instance(s) to %s\n", len(summary.Instances), summary.InstanceDir)
	for _, inst := range summary.Instances {
		fmt.Fprintf(t.out, "  %s (%s, %d key(s), %d model(s))\n",
			inst.ID, inst.ProviderType, len(inst.Keys), len(inst.Models))
	}
	answer, err := t.prompt("Proceed? (y/n)", "y")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
