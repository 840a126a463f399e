// Package plan defines the closed set of plan identifiers a subscription
// can reference and their display metadata. Pricing and feature limits
// live with the provider; this catalog only names what the local record
// of truth stores.
package plan

// Key identifies a plan tier.
type Key string

const (
	Starter    Key = "starter"
	Pro        Key = "pro"
	Business   Key = "business"
	Enterprise Key = "enterprise"
)

// displayNames maps plan keys to their human-readable names.
var displayNames = map[Key]string{
	Starter:    "Starter",
	Pro:        "Pro",
	Business:   "Business",
	Enterprise: "Enterprise",
}

// All returns the closed set of known plan keys in tier order.
func All() []Key {
	return []Key{Starter, Pro, Business, Enterprise}
}

// Known reports whether k is one of the catalog's plan keys.
func Known(k Key) bool {
	_, ok := displayNames[k]
	return ok
}

// DisplayName returns the human-readable name for a plan key.
// Unknown keys fall back to the raw identifier so that plans introduced
// provider-side before a deploy still render.
func DisplayName(k Key) string {
	if name, ok := displayNames[k]; ok {
		return name
	}
	return string(k)
}
