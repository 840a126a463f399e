package audithook

// Action constants for audit events.
const (
	// Subscription actions
	ActionSubscriptionCanceled = "subscription.canceled"

	// License actions
	ActionLicenseActivated   = "license.activated"
	ActionLicenseDeactivated = "license.deactivated"
	ActionLicenseValidated   = "license.validated"

	// Provider actions
	ActionProviderSync = "provider.sync"
)

// Resource type constants for audit events.
const (
	ResourceSubscription = "subscription"
	ResourceLicense      = "license"
	ResourceProduct      = "product"
	ResourceProvider     = "provider"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
