package registry

import (
	"fmt"
	"regexp"
	"time"

	"github.com/aicred/aicred/internal/errors"
)

// instanceIDPattern constrains instance ids to a shell-safe shape.
var instanceIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidInstanceID reports whether an id is acceptable for a new
// provider instance.
func ValidInstanceID(id string) bool {
	return instanceIDPattern.MatchString(id)
}

// ProviderInstance is one configured connection to a provider:
// credentials, endpoint, and the models it owns. Instances are owned
// by their containing ProviderInstances collection and mutated only
// through it.
type ProviderInstance struct {
	ID           string            `yaml:"id" json:"id"`
	DisplayName  string            `yaml:"display_name" json:"display_name"`
	ProviderType string            `yaml:"provider_type" json:"provider_type"`
	BaseURL      string            `yaml:"base_url" json:"base_url"`
	Keys         []Credential      `yaml:"keys,omitempty" json:"keys,omitempty"`
	Models       []Model           `yaml:"models,omitempty" json:"models,omitempty"`
	Metadata     map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Active       bool              `yaml:"active" json:"active"`
	CreatedAt    time.Time         `yaml:"created_at" json:"created_at"`
	UpdatedAt    time.Time         `yaml:"updated_at" json:"updated_at"`
}

// validateInto appends every violation in this instance to verrs.
func (p *ProviderInstance) validateInto(verrs *errors.ValidationErrors) {
	subject := p.ID
	if subject == "" {
		subject = "(unnamed instance)"
	}

	if p.ID == "" {
		verrs.Add(subject, "id", "must not be empty")
	} else if !ValidInstanceID(p.ID) {
		verrs.Add(subject, "id", "must match ^[a-z0-9][a-z0-9_-]*$")
	}
	if p.DisplayName == "" {
		verrs.Add(subject, "display_name", "must not be empty")
	}
	if p.ProviderType == "" {
		verrs.Add(subject, "provider_type", "must not be empty")
	}
	if p.BaseURL == "" {
		verrs.Add(subject, "base_url", "must not be empty")
	}

	seen := make(map[string]bool, len(p.Models))
	for i, m := range p.Models {
		field := fmt.Sprintf("models[%d]", i)

		if m.ModelID == "" {
			verrs.Add(subject, field+".model_id", "must not be empty")
		} else if seen[m.ModelID] {
			verrs.Add(subject, field+".model_id", fmt.Sprintf("duplicate model id '%s'", m.ModelID))
		} else {
			seen[m.ModelID] = true
		}

		if m.Name == "" {
			verrs.Add(subject, field+".name", "must not be empty")
		}
		if m.ContextWindow != nil && *m.ContextWindow <= 0 {
			verrs.Add(subject, field+".context_window", "must be positive")
		}
		if m.Temperature != nil && (*m.Temperature < 0.0 || *m.Temperature > 2.0) {
			verrs.Add(subject, field+".temperature", "must be within [0.0, 2.0]")
		}
		if m.Cost != nil {
			if m.Cost.InputCostPerMillion != nil && *m.Cost.InputCostPerMillion < 0 {
				verrs.Add(subject, field+".cost.input_cost_per_million", "must not be negative")
			}
			if m.Cost.OutputCostPerMillion != nil && *m.Cost.OutputCostPerMillion < 0 {
				verrs.Add(subject, field+".cost.output_cost_per_million", "must not be negative")
			}
			if m.Cost.CachedInputCostModifier != nil {
				mod := *m.Cost.CachedInputCostModifier
				if mod <= 0 || mod > 1 {
					verrs.Add(subject, field+".cost.cached_input_cost_modifier", "must be within (0, 1]")
				}
			}
		}
	}
}
