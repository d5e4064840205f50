// Package registry holds the persisted configuration data model:
// provider instances, their models, and the collection that owns them.
package registry

// Credential is one stored key for a provider instance. Value is only
// present when the user opted into storing raw material in the
// document instead of the OS keyring.
type Credential struct {
	ValueType string `yaml:"value_type" json:"value_type"`
	Hash      string `yaml:"hash" json:"hash"`
	Redacted  string `yaml:"redacted" json:"redacted"`
	Value     string `yaml:"value,omitempty" json:"value,omitempty"`
	Locked    bool   `yaml:"locked" json:"locked"`
}

// Capabilities flags what a model can do. Custom carries
// forward-compatible extensions without a schema change.
type Capabilities struct {
	TextGeneration  bool            `yaml:"text_generation" json:"text_generation"`
	ImageGeneration bool            `yaml:"image_generation" json:"image_generation"`
	AudioProcessing bool            `yaml:"audio_processing" json:"audio_processing"`
	VideoProcessing bool            `yaml:"video_processing" json:"video_processing"`
	CodeGeneration  bool            `yaml:"code_generation" json:"code_generation"`
	FunctionCalling bool            `yaml:"function_calling" json:"function_calling"`
	FineTuning      bool            `yaml:"fine_tuning" json:"fine_tuning"`
	Streaming       bool            `yaml:"streaming" json:"streaming"`
	Multimodal      bool            `yaml:"multimodal" json:"multimodal"`
	ToolUse         bool            `yaml:"tool_use" json:"tool_use"`
	Custom          map[string]bool `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// TokenCost prices a model per million tokens. CachedInputCostModifier
// is the discount multiplier applied to cached input tokens, in (0, 1].
type TokenCost struct {
	InputCostPerMillion     *float64 `yaml:"input_cost_per_million,omitempty" json:"input_cost_per_million,omitempty"`
	OutputCostPerMillion    *float64 `yaml:"output_cost_per_million,omitempty" json:"output_cost_per_million,omitempty"`
	CachedInputCostModifier *float64 `yaml:"cached_input_cost_modifier,omitempty" json:"cached_input_cost_modifier,omitempty"`
}

// Model is one model owned by a provider instance. ModelID is unique
// within the owning instance; ProviderInstanceID is a back-reference,
// not ownership.
type Model struct {
	ModelID            string            `yaml:"model_id" json:"model_id"`
	ProviderInstanceID string            `yaml:"provider_instance_id,omitempty" json:"provider_instance_id,omitempty"`
	Name               string            `yaml:"name" json:"name"`
	Quantization       string            `yaml:"quantization,omitempty" json:"quantization,omitempty"`
	ContextWindow      *int              `yaml:"context_window,omitempty" json:"context_window,omitempty"`
	Capabilities       *Capabilities     `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	Temperature        *float64          `yaml:"temperature,omitempty" json:"temperature,omitempty"`
	Tags               []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
	Cost               *TokenCost        `yaml:"cost,omitempty" json:"cost,omitempty"`
	Metadata           map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}
