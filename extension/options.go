package extension

import (
	entitle "github.com/xraph/entitle"
	"github.com/xraph/entitle/plugin"
	"github.com/xraph/entitle/provider"
	"github.com/xraph/entitle/store"
)

// Option configures the Forge extension.
type Option func(*Extension)

// WithStore sets the store for the engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithProvider sets the entitlement provider client, overriding any
// provider configured via YAML.
func WithProvider(c provider.Client) Option {
	return func(e *Extension) {
		e.providerClient = c
	}
}

// WithEngineOption passes an entitle.Option through to the underlying engine.
func WithEngineOption(opt entitle.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, entitle.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDisableAudit prevents wiring the audit hook into the store.
func WithDisableAudit() Option {
	return func(e *Extension) { e.config.DisableAudit = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
