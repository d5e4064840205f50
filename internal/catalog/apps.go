package catalog

import "path/filepath"

// appRules locates config files for applications known to embed
// provider credentials. Paths that do not exist are skipped by the
// scanner, so rules list every historical location.
var appRules = map[string]*AppRule{
	"claude-desktop": {
		Name:    "claude-desktop",
		AppName: "Claude Desktop",
		Format:  FormatJSON,
		Paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".claude.json"),
				filepath.Join(home, "Library", "Application Support", "Claude", "config.json"),
				filepath.Join(home, ".claude", "profiles", "default.json"),
			}
		},
	},
	"goose": {
		Name:    "goose",
		AppName: "Goose",
		Format:  FormatYAML,
		Paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".config", "goose", "config.yaml"),
				filepath.Join(home, "Library", "Application Support", "Goose", "config.yaml"),
				filepath.Join(home, ".goosebench.env"),
			}
		},
	},
	"gsh": {
		Name:    "gsh",
		AppName: "gsh",
		Format:  FormatEnv,
		Paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".gshrc"),
				filepath.Join(home, ".gshrc.local"),
			}
		},
		EnvProviders: map[string]string{
			"GSH_FAST_MODEL_API_KEY": "groq",
			"GSH_SLOW_MODEL_API_KEY": "openrouter",
		},
	},
	"langchain": {
		Name:    "langchain",
		AppName: "LangChain",
		Format:  FormatYAML,
		Paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".langchain", "config.yaml"),
				filepath.Join(home, ".langchain", "config.json"),
				filepath.Join(home, ".langchain", "settings.json"),
			}
		},
	},
	"ragit": {
		Name:    "ragit",
		AppName: "Ragit",
		Format:  FormatJSON,
		Paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".config", "ragit", "models.json"),
				filepath.Join(home, ".ragit", "config.json"),
			}
		},
	},
	"roo-code": {
		Name:    "roo-code",
		AppName: "Roo Code",
		Format:  FormatJSON,
		Paths: func(home string) []string {
			return []string{
				filepath.Join(home, ".vscode", "settings.json"),
				filepath.Join(home, ".vscode-insiders", "settings.json"),
				filepath.Join(home, ".roo-code", "config.json"),
				filepath.Join(home, ".vscode", "roo_code_providers.json"),
			}
		},
	},
}
