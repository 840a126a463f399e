package extension

// Config holds the extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.entitle" or "entitle" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DisableAudit prevents wiring the audit hook into the store.
	DisableAudit bool `json:"disable_audit" mapstructure:"disable_audit" yaml:"disable_audit"`

	// ProviderName identifies the entitlement provider (default: "rest").
	ProviderName string `json:"provider_name" mapstructure:"provider_name" yaml:"provider_name"`

	// ProviderBaseURL is the entitlement provider's API base URL. When
	// set and no provider client was supplied programmatically, the
	// extension constructs a REST client against it.
	ProviderBaseURL string `json:"provider_base_url" mapstructure:"provider_base_url" yaml:"provider_base_url"`

	// ProviderAPIKey authenticates against the provider API.
	ProviderAPIKey string `json:"provider_api_key" mapstructure:"provider_api_key" yaml:"provider_api_key"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ProviderName: "rest",
	}
}
