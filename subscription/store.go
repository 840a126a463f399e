package subscription

import (
	"context"

	"github.com/xraph/entitle/id"
)

type Store interface {
	Create(ctx context.Context, s *Subscription) error
	Get(ctx context.Context, subID id.SubscriptionID) (*Subscription, error)
	GetEffective(ctx context.Context, userID string) (*Subscription, error)
	List(ctx context.Context, userID string, opts ListOpts) ([]*Subscription, error)
	Update(ctx context.Context, s *Subscription) error
}

type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
