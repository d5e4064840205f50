package catalog

// providers is the closed table of known GenAI providers. Unknown
// provider ids still round-trip through the rest of the system as
// plain strings; only catalog lookups require membership here.
var providers = map[string]*ProviderMeta{
	"openai": {
		ID:           "openai",
		Name:         "OpenAI",
		Description:  "OpenAI API (GPT models)",
		BaseURL:      "https://api.openai.com/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "sk-proj-", Score: 0.95},
			{Prefix: "sk-", MinLength: 20, Score: 0.95},
		},
		EnvVars:       []string{"OPENAI_API_KEY", "OPENAI_KEY"},
		DefaultModels: []string{"gpt-4o", "gpt-4o-mini"},
	},
	"anthropic": {
		ID:           "anthropic",
		Name:         "Anthropic",
		Description:  "Anthropic API (Claude models)",
		BaseURL:      "https://api.anthropic.com/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "sk-ant-", Score: 0.95},
		},
		EnvVars:       []string{"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
		DefaultModels: []string{"claude-sonnet-4-20250514", "claude-3-5-haiku-20241022"},
	},
	"google": {
		ID:           "google",
		Name:         "Google AI",
		Description:  "Google Generative Language API (Gemini models)",
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "AIza", MinLength: 32, MaxLength: 50, Score: 0.90},
		},
		EnvVars:       []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"},
		DefaultModels: []string{"gemini-2.0-flash", "gemini-1.5-pro"},
	},
	"cohere": {
		ID:           "cohere",
		Name:         "Cohere",
		Description:  "Cohere API",
		BaseURL:      "https://api.cohere.com/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			// Cohere keys carry no prefix; only the 40-char shape is known.
			{ExactLen: 40, Score: 0.85},
		},
		EnvVars:       []string{"COHERE_API_KEY", "CO_API_KEY"},
		DefaultModels: []string{"command-r-plus", "command-r"},
	},
	"mistral": {
		ID:            "mistral",
		Name:          "Mistral AI",
		Description:   "Mistral AI API",
		BaseURL:       "https://api.mistral.ai/v1",
		RequiresAuth:  true,
		ValueType:     "api_key",
		EnvVars:       []string{"MISTRAL_API_KEY"},
		DefaultModels: []string{"mistral-large-latest", "mistral-small-latest"},
	},
	"groq": {
		ID:           "groq",
		Name:         "Groq",
		Description:  "Groq API",
		BaseURL:      "https://api.groq.com/openai/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "gsk_", Score: 0.95},
			{Prefix: "gsk-", Score: 0.95},
		},
		EnvVars:       []string{"GROQ_API_KEY"},
		DefaultModels: []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
	},
	"grok": {
		ID:           "grok",
		Name:         "xAI Grok",
		Description:  "xAI API (Grok models)",
		BaseURL:      "https://api.x.ai/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "xai-", Score: 0.95},
			{Prefix: "sk-", MinLength: 40, Score: 0.90},
		},
		EnvVars:       []string{"XAI_API_KEY", "GROK_API_KEY"},
		DefaultModels: []string{"grok-3", "grok-3-mini"},
	},
	"deepseek": {
		ID:           "deepseek",
		Name:         "DeepSeek",
		Description:  "DeepSeek API",
		BaseURL:      "https://api.deepseek.com/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "sk-", MinLength: 40, Score: 0.90},
		},
		EnvVars:       []string{"DEEPSEEK_API_KEY"},
		DefaultModels: []string{"deepseek-chat", "deepseek-reasoner"},
	},
	"deepinfra": {
		ID:            "deepinfra",
		Name:          "DeepInfra",
		Description:   "DeepInfra OpenAI-compatible API",
		BaseURL:       "https://api.deepinfra.com/v1/openai",
		RequiresAuth:  true,
		ValueType:     "api_key",
		EnvVars:       []string{"DEEPINFRA_API_KEY", "DEEPINFRA_API_TOKEN"},
		DefaultModels: []string{"meta-llama/Meta-Llama-3.1-70B-Instruct"},
	},
	"fireworks": {
		ID:           "fireworks",
		Name:         "Fireworks AI",
		Description:  "Fireworks AI inference API",
		BaseURL:      "https://api.fireworks.ai/inference/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "fw_", Score: 0.95},
		},
		EnvVars:       []string{"FIREWORKS_API_KEY"},
		DefaultModels: []string{"accounts/fireworks/models/llama-v3p1-70b-instruct"},
	},
	"huggingface": {
		ID:           "huggingface",
		Name:         "Hugging Face",
		Description:  "Hugging Face Inference API",
		BaseURL:      "https://api-inference.huggingface.co",
		RequiresAuth: true,
		ValueType:    "access_token",
		KeyPrefixes: []PrefixRule{
			{Prefix: "hf_", Score: 0.95},
		},
		EnvVars:       []string{"HF_TOKEN", "HUGGING_FACE_HUB_TOKEN", "HUGGINGFACE_API_KEY"},
		DefaultModels: []string{"meta-llama/Llama-3.1-8B-Instruct"},
	},
	"litellm": {
		ID:           "litellm",
		Name:         "LiteLLM",
		Description:  "LiteLLM proxy",
		BaseURL:      "http://localhost:4000",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "sk-", MinLength: 20, Score: 0.80},
		},
		EnvVars:       []string{"LITELLM_API_KEY", "LITELLM_MASTER_KEY"},
		DefaultModels: nil,
	},
	"moonshot": {
		ID:            "moonshot",
		Name:          "Moonshot AI",
		Description:   "Moonshot AI API (Kimi models)",
		BaseURL:       "https://api.moonshot.cn/v1",
		RequiresAuth:  true,
		ValueType:     "api_key",
		EnvVars:       []string{"MOONSHOT_API_KEY"},
		DefaultModels: []string{"moonshot-v1-8k"},
	},
	"ollama": {
		ID:            "ollama",
		Name:          "Ollama",
		Description:   "Local Ollama server",
		BaseURL:       "http://localhost:11434",
		RequiresAuth:  false,
		ValueType:     "api_key",
		EnvVars:       []string{"OLLAMA_HOST"},
		DefaultModels: []string{"llama3.2", "qwen2.5"},
	},
	"openrouter": {
		ID:           "openrouter",
		Name:         "OpenRouter",
		Description:  "OpenRouter aggregation API",
		BaseURL:      "https://openrouter.ai/api/v1",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "sk-or-", Score: 0.95},
		},
		EnvVars:       []string{"OPENROUTER_API_KEY"},
		DefaultModels: []string{"openrouter/auto"},
	},
	"perplexity": {
		ID:           "perplexity",
		Name:         "Perplexity",
		Description:  "Perplexity API",
		BaseURL:      "https://api.perplexity.ai",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			{Prefix: "pplx-", Score: 0.95},
		},
		EnvVars:       []string{"PERPLEXITY_API_KEY", "PPLX_API_KEY"},
		DefaultModels: []string{"sonar-pro", "sonar"},
	},
	"replicate": {
		ID:           "replicate",
		Name:         "Replicate",
		Description:  "Replicate API",
		BaseURL:      "https://api.replicate.com/v1",
		RequiresAuth: true,
		ValueType:    "access_token",
		KeyPrefixes: []PrefixRule{
			{Prefix: "r8_", Score: 0.95},
		},
		EnvVars:       []string{"REPLICATE_API_TOKEN"},
		DefaultModels: nil,
	},
	"together": {
		ID:            "together",
		Name:          "Together AI",
		Description:   "Together AI API",
		BaseURL:       "https://api.together.xyz/v1",
		RequiresAuth:  true,
		ValueType:     "api_key",
		EnvVars:       []string{"TOGETHER_API_KEY", "TOGETHERAI_API_KEY"},
		DefaultModels: []string{"meta-llama/Llama-3.3-70B-Instruct-Turbo"},
	},
	"zai": {
		ID:            "zai",
		Name:          "Z.ai",
		Description:   "Z.ai API (GLM models)",
		BaseURL:       "https://api.z.ai/api/paas/v4",
		RequiresAuth:  true,
		ValueType:     "api_key",
		EnvVars:       []string{"ZAI_API_KEY", "ZHIPUAI_API_KEY"},
		DefaultModels: []string{"glm-4-plus"},
	},
	"azure": {
		ID:           "azure",
		Name:         "Azure OpenAI",
		Description:  "Azure OpenAI Service (endpoint-specific base URL)",
		BaseURL:      "",
		RequiresAuth: true,
		ValueType:    "api_key",
		KeyPrefixes: []PrefixRule{
			// Azure keys carry no marker prefix, only a length shape.
			{Prefix: "", MinLength: 20, Score: 0.90},
		},
		EnvVars:       []string{"AZURE_OPENAI_API_KEY", "AZURE_OPENAI_KEY"},
		DefaultModels: nil,
	},
	"aws-bedrock": {
		ID:           "aws-bedrock",
		Name:         "AWS Bedrock",
		Description:  "AWS Bedrock (region-specific endpoint)",
		BaseURL:      "",
		RequiresAuth: true,
		ValueType:    "access_token",
		KeyPrefixes: []PrefixRule{
			{Prefix: "AKIA", ExactLen: 20, Score: 0.95},
		},
		EnvVars:       []string{"AWS_ACCESS_KEY_ID", "AWS_BEDROCK_API_KEY"},
		DefaultModels: []string{"anthropic.claude-3-5-sonnet-20241022-v2:0"},
	},
}
