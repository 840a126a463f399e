package types

// Identity is the authenticated caller of an operation. It is passed
// explicitly to every manager operation rather than read from ambient
// request context, and carries the request attributes the audit trail
// records.
type Identity struct {
	UserID    string `json:"user_id"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// IsZero reports whether the identity carries no authenticated user.
func (i Identity) IsZero() bool {
	return i.UserID == ""
}
