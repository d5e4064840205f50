// Package permissions audits filesystem modes on files that hold
// credentials. Findings are advisory; nothing here changes a mode.
package permissions

import (
	"fmt"
	"os"
)

// groupOtherBits are the permission bits a credential file must not
// carry.
const groupOtherBits = 0o077

// Finding is one flagged path.
type Finding struct {
	Path       string      `json:"path"`
	Mode       os.FileMode `json:"mode"`
	Problem    string      `json:"problem"`
	Suggestion string      `json:"suggestion"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s contains credentials but is readable by group/other (mode %o)",
		f.Path, f.Mode.Perm())
}

// Check inspects one path. A nil Finding means the mode is acceptable
// or the path cannot be inspected; audits never fail a caller.
func Check(path string) *Finding {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	return checkInfo(path, info)
}

func checkInfo(path string, info os.FileInfo) *Finding {
	perm := info.Mode().Perm()
	if perm&groupOtherBits == 0 {
		return nil
	}

	problem := "readable by group or other users"
	suggestion := fmt.Sprintf("Run 'chmod 600 %s'", path)
	if info.IsDir() {
		problem = "directory accessible by group or other users"
		suggestion = fmt.Sprintf("Run 'chmod 700 %s'", path)
	}
	return &Finding{
		Path:       path,
		Mode:       info.Mode(),
		Problem:    problem,
		Suggestion: suggestion,
	}
}

// Audit checks every path and returns the findings in input order.
// Missing paths are skipped silently.
func Audit(paths []string) []Finding {
	var findings []Finding
	for _, path := range paths {
		if f := Check(path); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}
