package scan

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/classify"
	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/metrics"
	"github.com/aicred/aicred/internal/permissions"
)

// appWorkers bounds the worker pool for application rules.
const appWorkers = 4

// Run performs one scan. It shares no mutable state with other
// invocations and is safe to call concurrently.
func Run(opts Options) (*Result, error) {
	home, maxSize, filter, err := normalize(opts)
	if err != nil {
		return nil, err
	}

	m := metrics.NewScanMetrics()
	m.RecordScan()

	result := &Result{
		HomeDir:          home,
		ScannedAt:        time.Now().UTC(),
		ProvidersScanned: filter.providers(),
		Keys:             []classify.DiscoveredKey{},
		ConfigInstances:  []ConfigInstance{},
	}

	dedupe := classify.NewDeduper()

	// Well-known env files are few; scan them sequentially so flat key
	// order stays deterministic.
	envPart := scanEnvFiles(home, maxSize, filter, opts.IncludeFullValues, m)
	for _, key := range envPart.keys {
		dedupe.Add(key)
	}
	result.SkippedFiles = append(result.SkippedFiles, envPart.skipped...)
	result.Warnings = append(result.Warnings, envPart.warnings...)

	// Application rules fan out onto a bounded pool. Each worker fills
	// a private partial; a single aggregation point merges them.
	partials := runAppRules(home, maxSize, filter, opts.IncludeFullValues, m)
	for _, part := range partials {
		for _, key := range part.keys {
			dedupe.Add(key)
		}
		result.ConfigInstances = append(result.ConfigInstances, part.instances...)
		result.SkippedFiles = append(result.SkippedFiles, part.skipped...)
		result.Warnings = append(result.Warnings, part.warnings...)
	}

	result.Keys = dedupe.Keys()
	for _, key := range result.Keys {
		m.RecordKeyDiscovered(key.Provider)
	}
	return result, nil
}

// partial is one worker's private slice of the result.
type partial struct {
	rule      string
	keys      []classify.DiscoveredKey
	instances []ConfigInstance
	skipped   []SkippedFile
	warnings  []string
}

func runAppRules(home string, maxSize int64, filter providerFilter, fullValues bool, m *metrics.ScanMetrics) []partial {
	rules := catalog.AppRules()

	jobs := make(chan *catalog.AppRule, len(rules))
	results := make(chan partial, len(rules))

	workers := appWorkers
	if workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	for w := 0; w < workers; w++ {
		go func() {
			for rule := range jobs {
				results <- scanAppRule(home, rule, maxSize, filter, fullValues, m)
			}
		}()
	}

	for _, rule := range rules {
		jobs <- rule
	}
	close(jobs)

	partials := make([]partial, 0, len(rules))
	for range rules {
		partials = append(partials, <-results)
	}
	// Workers finish in arbitrary order; rule name restores determinism.
	sort.Slice(partials, func(i, j int) bool { return partials[i].rule < partials[j].rule })
	return partials
}

func normalize(opts Options) (home string, maxSize int64, filter providerFilter, err error) {
	home = opts.HomeDir
	if home == "" {
		home, err = os.UserHomeDir()
		if err != nil {
			return "", 0, providerFilter{}, errors.InvalidInputError{
				Field:      "home_dir",
				Message:    "no home directory available and none given",
				Suggestion: "Pass an explicit directory with --home",
			}
		}
	}

	info, statErr := os.Stat(home)
	if statErr != nil {
		return "", 0, providerFilter{}, errors.InvalidInputError{
			Field:      "home_dir",
			Value:      home,
			Message:    "directory does not exist",
			Suggestion: "Pass an existing directory with --home",
		}
	}
	if !info.IsDir() {
		return "", 0, providerFilter{}, errors.InvalidInputError{
			Field:   "home_dir",
			Value:   home,
			Message: "path is not a directory",
		}
	}

	maxSize = opts.MaxFileSize
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}
	if maxSize < 0 {
		return "", 0, providerFilter{}, errors.InvalidInputError{
			Field:   "max_file_size",
			Value:   opts.MaxFileSize,
			Message: "must be positive",
		}
	}

	filter, err = newProviderFilter(opts.OnlyProviders, opts.ExcludeProviders)
	if err != nil {
		return "", 0, providerFilter{}, err
	}
	return home, maxSize, filter, nil
}

// providerFilter implements the only/exclude allow-deny lists.
type providerFilter struct {
	only    map[string]bool
	exclude map[string]bool
}

func newProviderFilter(only, exclude []string) (providerFilter, error) {
	f := providerFilter{}
	if len(only) > 0 {
		f.only = make(map[string]bool, len(only))
		for _, id := range only {
			f.only[id] = true
		}
	}
	if len(exclude) > 0 {
		f.exclude = make(map[string]bool, len(exclude))
		for _, id := range exclude {
			if f.only != nil && f.only[id] {
				return providerFilter{}, errors.InvalidInputError{
					Field:   "exclude_providers",
					Value:   id,
					Message: "provider appears in both only_providers and exclude_providers",
				}
			}
			f.exclude[id] = true
		}
	}
	return f, nil
}

func (f providerFilter) allows(id string) bool {
	if f.only != nil && !f.only[id] {
		return false
	}
	if f.exclude != nil && f.exclude[id] {
		return false
	}
	return true
}

// providers returns the catalog providers this scan will attempt.
func (f providerFilter) providers() []string {
	all := catalog.Providers()
	out := make([]string, 0, len(all))
	for _, id := range all {
		if f.allows(id) {
			out = append(out, id)
		}
	}
	return out
}

// readCandidate reads one candidate file within the size bound.
// A nil slice with a non-nil skip means the file was passed over.
func readCandidate(path string, maxSize int64, m *metrics.ScanMetrics) ([]byte, *SkippedFile) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, nil // absent paths are not even a skip
	}
	if info.Mode()&os.ModeSymlink != 0 {
		m.RecordFileSkipped("symlink")
		return nil, &SkippedFile{Path: path, Reason: "symlink"}
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}
	if info.Size() > maxSize {
		m.RecordFileSkipped("oversized")
		return nil, &SkippedFile{
			Path:   path,
			Reason: fmt.Sprintf("exceeds max file size (%d > %d bytes)", info.Size(), maxSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.RecordFileSkipped("unreadable")
		return nil, &SkippedFile{Path: path, Reason: "unreadable: " + err.Error()}
	}
	m.RecordFileScanned()
	return data, nil
}

// permissionWarning flags credential files readable beyond the owner.
func permissionWarning(path string) string {
	if f := permissions.Check(path); f != nil {
		return f.String()
	}
	return ""
}
