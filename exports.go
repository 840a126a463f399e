package entitle

import "github.com/xraph/entitle/types"

// Re-export common types for convenience so users don't have to import
// the types package.

// Identity is re-exported from the types package.
type Identity = types.Identity

// Entity is re-exported from the types package.
type Entity = types.Entity

// Money is re-exported from the types package.
type Money = types.Money

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	Zero = types.Zero
)

// Re-export Entity constructor
var NewEntity = types.NewEntity
