package classify

// DiscoveredKey is one classified credential sighting. Value is only
// carried when the caller asked for full values; Hash and Redacted are
// always safe to display and persist.
type DiscoveredKey struct {
	Provider   string `json:"provider"`
	Source     string `json:"source"`
	ValueType  string `json:"value_type"`
	Value      string `json:"value,omitempty"`
	Confidence string `json:"confidence"`
	Hash       string `json:"hash"`
	Redacted   string `json:"redacted"`
	Locked     bool   `json:"locked"`
}

// Candidate is a raw credential sighting before classification.
type Candidate struct {
	Provider  string
	Source    string
	ValueType string
	Value     string
	// ScoreHint overrides prefix scoring when the source itself is
	// authoritative, e.g. a key found under an app's provider block.
	ScoreHint float64
}

// Classify turns a candidate into a DiscoveredKey. The raw value is
// dropped unless includeFullValues is set.
func Classify(c Candidate, includeFullValues bool) DiscoveredKey {
	score := c.ScoreHint
	if score == 0 {
		score = Score(c.Provider, c.Value)
	}

	valueType := c.ValueType
	if valueType == "" {
		valueType = "api_key"
		if meta, err := lookupValueType(c.Provider); err == nil && meta != "" {
			valueType = meta
		}
	}

	key := DiscoveredKey{
		Provider:   c.Provider,
		Source:     c.Source,
		ValueType:  valueType,
		Confidence: string(Tier(score)),
		Hash:       HashValue(c.Value),
		Redacted:   RedactValue(c.Value),
	}
	if includeFullValues {
		key.Value = c.Value
	}
	return key
}

// Deduper collapses repeat sightings of the same value within one
// scan. Identity is the value hash; the first sighting's source wins,
// but a later sighting may upgrade the confidence.
type Deduper struct {
	seen  map[string]int
	order []DiscoveredKey
}

// NewDeduper creates an empty deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]int)}
}

// Add records a key, merging it with a prior sighting of the same hash.
func (d *Deduper) Add(key DiscoveredKey) {
	if idx, ok := d.seen[key.Hash]; ok {
		prior := &d.order[idx]
		if Confidence(key.Confidence).AtLeast(Confidence(prior.Confidence)) &&
			key.Confidence != prior.Confidence {
			prior.Confidence = key.Confidence
		}
		if prior.Value == "" && key.Value != "" {
			prior.Value = key.Value
		}
		return
	}
	d.seen[key.Hash] = len(d.order)
	d.order = append(d.order, key)
}

// Keys returns the deduplicated keys in first-seen order.
func (d *Deduper) Keys() []DiscoveredKey {
	return append([]DiscoveredKey(nil), d.order...)
}
