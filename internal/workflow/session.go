// Package workflow drives the interactive curation session: scan,
// review, configure, label, resolve, persist. The session owns the
// only in-memory copy of raw credential values and guarantees that a
// cancellation at any step leaves zero persisted side effects.
package workflow

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/aicred/aicred/internal/catalog"
	"github.com/aicred/aicred/internal/classify"
	"github.com/aicred/aicred/internal/errors"
	"github.com/aicred/aicred/internal/labels"
	"github.com/aicred/aicred/internal/logging"
	"github.com/aicred/aicred/internal/registry"
	"github.com/aicred/aicred/internal/secure"
	"github.com/aicred/aicred/internal/store"
	"github.com/aicred/aicred/pkg/keyfinder"
)

// State is where a session currently stands. Done and Aborted are
// terminal.
type State string

const (
	StateIdle        State = "idle"
	StateScanning    State = "scanning"
	StateReviewing   State = "reviewing"
	StateConfiguring State = "configuring"
	StateLabeling    State = "labeling"
	StateResolving   State = "resolving_existing_config"
	StatePersisting  State = "persisting"
	StateDone        State = "done"
	StateAborted     State = "aborted"
)

// Config assembles a session. Zero-value fields get safe defaults:
// an AutoCollaborator, a NoopDiscoverer, and the standard store
// directory.
type Config struct {
	Scan         keyfinder.ScanOptions
	Collaborator Collaborator
	Store        *store.Store
	Discoverer   ModelDiscoverer
	Logger       *logging.Logger

	// UseKeyring routes raw values into the OS keyring instead of the
	// instances document.
	UseKeyring bool
	Keyring    *store.KeyringStore

	// SkipLabels bypasses the labeling step entirely.
	SkipLabels bool

	// Resolution, when non-empty, answers the existing-configuration
	// question without consulting the collaborator.
	Resolution Resolution
}

// Session is one run of the curation workflow. Not safe for
// concurrent use.
type Session struct {
	cfg   Config
	state State
	vault *secure.KeyVault
}

// NewSession creates a session in the Idle state.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Collaborator == nil {
		cfg.Collaborator = AutoCollaborator{}
	}
	if cfg.Discoverer == nil {
		cfg.Discoverer = NoopDiscoverer{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New(false, false)
	}
	if cfg.Store == nil {
		dir, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		cfg.Store = store.New(dir)
	}
	if cfg.UseKeyring && cfg.Keyring == nil {
		cfg.Keyring = store.NewKeyringStore()
	}
	return &Session{cfg: cfg, state: StateIdle, vault: secure.NewKeyVault()}, nil
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run executes the workflow from scan to persist. A collaborator
// returning ErrCancelled aborts cleanly; any other error aborts with
// that error. Raw values are destroyed on every exit path.
func (s *Session) Run(ctx context.Context) error {
	defer s.vault.Destroy()

	result, err := s.scanPhase()
	if err != nil {
		return s.abort(err)
	}

	selected, err := s.reviewPhase(result)
	if err != nil {
		return s.abort(err)
	}
	if len(selected) == 0 {
		s.cfg.Logger.Info("No credentials selected, nothing to configure")
		s.state = StateDone
		return nil
	}

	instances, err := s.configurePhase(ctx, selected)
	if err != nil {
		return s.abort(err)
	}
	if len(instances) == 0 {
		s.cfg.Logger.Info("No provider instances could be configured")
		s.state = StateDone
		return nil
	}

	choices, err := s.labelPhase(instances)
	if err != nil {
		return s.abort(err)
	}

	resolution, err := s.resolvePhase()
	if err != nil {
		return s.abort(err)
	}
	if resolution == ResolutionCancel {
		return s.abort(ErrCancelled)
	}

	if err := s.persistPhase(instances, choices, resolution); err != nil {
		return s.abort(err)
	}

	s.state = StateDone
	return nil
}

func (s *Session) abort(err error) error {
	s.state = StateAborted
	if stderrors.Is(err, ErrCancelled) {
		s.cfg.Logger.Warn("Curation cancelled, nothing was written")
	}
	return err
}

// scanPhase runs the discovery scan with full values forced on, moves
// every raw value into the vault, and strips it from the result so
// later phases only circulate hashes and redacted forms.
func (s *Session) scanPhase() (*keyfinder.ScanResult, error) {
	s.state = StateScanning

	opts := s.cfg.Scan
	opts.IncludeFullValues = true

	result, err := keyfinder.Scan(opts)
	if err != nil {
		return nil, err
	}

	for i := range result.Keys {
		key := &result.Keys[i]
		if key.Value == "" {
			continue
		}
		if err := s.vault.Put(key.Hash, key.Value); err != nil {
			return nil, err
		}
		key.Value = ""
	}
	for i := range result.ConfigInstances {
		for j := range result.ConfigInstances[i].Keys {
			result.ConfigInstances[i].Keys[j].Value = ""
		}
	}

	s.cfg.Logger.Info("Scan found %d credential(s) across %d config file(s)",
		len(result.Keys), len(result.ConfigInstances))
	return result, nil
}

// reviewPhase asks the collaborator which keys to keep. High and
// VeryHigh confidence keys are preselected; locked keys never are.
func (s *Session) reviewPhase(result *keyfinder.ScanResult) ([]keyfinder.DiscoveredKey, error) {
	s.state = StateReviewing

	byHash := make(map[string]keyfinder.DiscoveredKey, len(result.Keys))
	var preselected []string
	for _, key := range result.Keys {
		byHash[key.Hash] = key
		if key.Locked {
			continue
		}
		if classify.Confidence(key.Confidence).AtLeast(classify.High) {
			preselected = append(preselected, key.Hash)
		}
	}

	chosen, err := s.cfg.Collaborator.ReviewKeys(result, preselected)
	if err != nil {
		return nil, err
	}

	var selected []keyfinder.DiscoveredKey
	seen := make(map[string]bool)
	for _, hash := range chosen {
		key, ok := byHash[hash]
		if !ok || seen[hash] {
			continue
		}
		seen[hash] = true
		selected = append(selected, key)
	}
	return selected, nil
}

// configurePhase groups the selected keys by provider, drafts one
// instance per provider, and lets the collaborator adjust each draft.
func (s *Session) configurePhase(ctx context.Context, selected []keyfinder.DiscoveredKey) ([]*registry.ProviderInstance, error) {
	s.state = StateConfiguring

	groups := make(map[string][]keyfinder.DiscoveredKey)
	for _, key := range selected {
		groups[key.Provider] = append(groups[key.Provider], key)
	}
	providerIDs := make([]string, 0, len(groups))
	for id := range groups {
		providerIDs = append(providerIDs, id)
	}
	sort.Strings(providerIDs)

	taken := make(map[string]bool)
	var instances []*registry.ProviderInstance
	for _, provider := range providerIDs {
		keys := groups[provider]
		draft := s.newDraft(provider, keys, taken)
		s.discoverModels(ctx, &draft)

		inst, err := s.acceptDraft(draft, keys, taken)
		if err != nil {
			return nil, err
		}
		if inst == nil {
			s.cfg.Logger.Warn("Skipping %s: no base URL known for this provider", provider)
			continue
		}
		taken[inst.ID] = true
		instances = append(instances, inst)
	}
	return instances, nil
}

// configureAttempts bounds re-prompting on invalid drafts.
const configureAttempts = 3

// acceptDraft runs the collaborator over a draft until it validates.
// A nil instance with nil error means the provider group is skipped.
func (s *Session) acceptDraft(draft InstanceDraft, keys []keyfinder.DiscoveredKey, taken map[string]bool) (*registry.ProviderInstance, error) {
	var lastErr error
	for attempt := 0; attempt < configureAttempts; attempt++ {
		adjusted, err := s.cfg.Collaborator.ConfigureInstance(draft)
		if err != nil {
			return nil, err
		}
		if adjusted.BaseURL == "" {
			return nil, nil
		}
		if taken[adjusted.ID] {
			lastErr = errors.ConflictError{
				Resource: "instance",
				ID:       adjusted.ID,
				Message:  "id already used in this session",
			}
			s.cfg.Logger.Warn("Instance configuration rejected: %v", lastErr)
			continue
		}

		inst := buildInstance(adjusted, keys)
		probe := registry.NewProviderInstances()
		if lastErr = probe.Add(inst); lastErr == nil {
			if lastErr = probe.Validate(); lastErr == nil {
				return inst, nil
			}
		}
		s.cfg.Logger.Warn("Instance configuration rejected: %v", lastErr)
	}
	return nil, lastErr
}

// newDraft builds the default instance draft for one provider group.
func (s *Session) newDraft(provider string, keys []keyfinder.DiscoveredKey, taken map[string]bool) InstanceDraft {
	draft := InstanceDraft{
		ID:           uniqueID(provider+"-default", taken),
		DisplayName:  provider,
		ProviderType: provider,
	}
	if meta, err := catalog.Lookup(provider); err == nil {
		draft.DisplayName = meta.Name
		draft.BaseURL = meta.BaseURL
		for _, id := range meta.DefaultModels {
			draft.Models = append(draft.Models, registry.Model{ModelID: id, Name: id})
		}
	}
	for _, key := range keys {
		draft.KeyHashes = append(draft.KeyHashes, key.Hash)
	}
	return draft
}

// discoverModels replaces a draft's model list with live results when
// the discoverer can produce any. Failures keep the defaults.
func (s *Session) discoverModels(ctx context.Context, draft *InstanceDraft) {
	if len(draft.KeyHashes) == 0 {
		return
	}
	apiKey, err := s.vault.Reveal(draft.KeyHashes[0])
	if err != nil {
		return
	}

	models, err := s.cfg.Discoverer.Discover(ctx, draft.ProviderType, draft.BaseURL, apiKey)
	if err != nil {
		s.cfg.Logger.Warn("Model discovery for %s failed: %v", draft.ProviderType, err)
		return
	}
	if len(models) > 0 {
		draft.Models = models
	}
}

func uniqueID(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// buildInstance turns an accepted draft into a provider instance.
// Credential values stay out; they are attached at persist time.
func buildInstance(draft InstanceDraft, keys []keyfinder.DiscoveredKey) *registry.ProviderInstance {
	inst := &registry.ProviderInstance{
		ID:           draft.ID,
		DisplayName:  draft.DisplayName,
		ProviderType: draft.ProviderType,
		BaseURL:      draft.BaseURL,
		Models:       draft.Models,
		Active:       true,
	}
	wanted := make(map[string]bool, len(draft.KeyHashes))
	for _, hash := range draft.KeyHashes {
		wanted[hash] = true
	}
	for _, key := range keys {
		if !wanted[key.Hash] {
			continue
		}
		inst.Keys = append(inst.Keys, registry.Credential{
			ValueType: key.ValueType,
			Hash:      key.Hash,
			Redacted:  key.Redacted,
			Locked:    key.Locked,
		})
	}
	return inst
}

// labelPhase collects label assignments for the configured instances.
func (s *Session) labelPhase(instances []*registry.ProviderInstance) ([]LabelChoice, error) {
	s.state = StateLabeling
	if s.cfg.SkipLabels {
		return nil, nil
	}
	return s.cfg.Collaborator.ChooseLabels(instances)
}

// resolvePhase decides what happens to pre-existing configuration. A
// fresh store needs no decision and defaults to replace semantics.
func (s *Session) resolvePhase() (Resolution, error) {
	s.state = StateResolving

	if !s.cfg.Store.Exists() {
		return ResolutionReplace, nil
	}
	if s.cfg.Resolution != "" {
		return s.cfg.Resolution, nil
	}
	return s.cfg.Collaborator.ResolveExisting()
}

// persistPhase is the only phase that writes. It assembles the final
// collection, validates it, gets the last confirmation, attaches raw
// values, and saves both documents.
func (s *Session) persistPhase(instances []*registry.ProviderInstance, choices []LabelChoice, resolution Resolution) error {
	s.state = StatePersisting

	collection := registry.NewProviderInstances()
	tagRepo := labels.NewTagRepo()
	labelRepo := labels.NewLabelRepo()

	if resolution == ResolutionMerge {
		existing, err := s.cfg.Store.LoadInstances()
		if err != nil {
			return err
		}
		collection = existing
		tagRepo, labelRepo, err = s.cfg.Store.LoadLabels()
		if err != nil {
			return err
		}
	}

	// Merge keeps what is already configured; a new instance only
	// lands on an id nobody holds.
	kept := make([]*registry.ProviderInstance, 0, len(instances))
	for _, inst := range instances {
		if err := collection.Add(inst); err != nil {
			if errors.IsConflict(err) && resolution == ResolutionMerge {
				s.cfg.Logger.Warn("Keeping existing instance %q, skipping the new one", inst.ID)
				continue
			}
			return err
		}
		kept = append(kept, inst)
	}

	if err := collection.Validate(); err != nil {
		return err
	}

	for _, choice := range choices {
		if _, ok := labelRepo.Get(choice.LabelName); !ok {
			if err := labelRepo.AddLabel(labels.Label{Name: choice.LabelName}); err != nil {
				return err
			}
		}
		if _, err := labelRepo.Assign(choice.LabelName, choice.Target); err != nil {
			return err
		}
	}

	ok, err := s.cfg.Collaborator.ConfirmPersist(Summary{
		Instances:   collection.All(),
		LabelCount:  len(labelRepo.Assignments()),
		Resolution:  resolution,
		InstanceDir: s.cfg.Store.Dir(),
	})
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	if err := s.attachValues(kept); err != nil {
		return err
	}

	if err := s.cfg.Store.SaveInstances(collection); err != nil {
		return err
	}
	if err := s.cfg.Store.SaveLabels(tagRepo, labelRepo); err != nil {
		return err
	}

	s.cfg.Logger.Info("Saved %d instance(s) to %s", collection.Len(), s.cfg.Store.Dir())
	return nil
}

// attachValues moves raw values out of the vault into their final
// home: the OS keyring, or the document itself.
func (s *Session) attachValues(instances []*registry.ProviderInstance) error {
	for _, inst := range instances {
		for i := range inst.Keys {
			cred := &inst.Keys[i]
			value, err := s.vault.Reveal(cred.Hash)
			if err != nil {
				if errors.IsNotFound(err) {
					continue
				}
				return err
			}
			if s.cfg.UseKeyring {
				if err := s.cfg.Keyring.Set(inst.ID, cred.Hash, value); err != nil {
					return err
				}
				continue
			}
			cred.Value = value
		}
	}
	return nil
}
