// Package memory provides an in-memory store, suitable for tests and
// single-process embedding.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/entitle"
	audithook "github.com/xraph/entitle/audit_hook"
	"github.com/xraph/entitle/id"
	"github.com/xraph/entitle/store"
	"github.com/xraph/entitle/subscription"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Subscription storage
	subscriptions map[string]*subscription.Subscription

	// Audit trail, append-only
	auditEvents []*audithook.Event
}

func New() *Store {
	return &Store{
		subscriptions: make(map[string]*subscription.Subscription),
	}
}

// Subscription Store implementation.
//
// Records are copied on the way in and out so callers can't mutate
// stored state without going through UpdateSubscription.

func (s *Store) CreateSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[sub.ID.String()]; exists {
		return entitle.ErrAlreadyExists
	}
	s.subscriptions[sub.ID.String()] = cloneSubscription(sub)
	return nil
}

func (s *Store) GetSubscription(_ context.Context, subID id.SubscriptionID) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sub, ok := s.subscriptions[subID.String()]; ok {
		return cloneSubscription(sub), nil
	}
	return nil, entitle.ErrSubscriptionNotFound
}

func (s *Store) GetEffectiveSubscription(_ context.Context, userID string) (*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *subscription.Subscription
	for _, sub := range s.subscriptions {
		if sub.UserID != userID || !sub.IsEffective() {
			continue
		}
		if best == nil || sub.CreatedAt.After(best.CreatedAt) {
			best = sub
		}
	}
	if best == nil {
		return nil, entitle.ErrNoEffectiveSubscription
	}
	return cloneSubscription(best), nil
}

func (s *Store) ListSubscriptions(_ context.Context, userID string, opts subscription.ListOpts) ([]*subscription.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*subscription.Subscription, 0)
	for _, sub := range s.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if opts.Status == "" || sub.Status == opts.Status {
			result = append(result, cloneSubscription(sub))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

func (s *Store) UpdateSubscription(_ context.Context, sub *subscription.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[sub.ID.String()]; !exists {
		return entitle.ErrSubscriptionNotFound
	}
	s.subscriptions[sub.ID.String()] = cloneSubscription(sub)
	return nil
}

// Audit Store implementation

func (s *Store) AppendAuditEvent(_ context.Context, evt *audithook.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditEvents = append(s.auditEvents, evt)
	return nil
}

// AuditEvents returns a snapshot of the recorded audit trail. Only the
// memory backend exposes this; it exists for tests and debugging.
func (s *Store) AuditEvents() []*audithook.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*audithook.Event, len(s.auditEvents))
	copy(result, s.auditEvents)
	return result
}

// Core methods

func (s *Store) Migrate(_ context.Context) error { return nil }

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func cloneSubscription(sub *subscription.Subscription) *subscription.Subscription {
	c := *sub
	if sub.CanceledAt != nil {
		t := *sub.CanceledAt
		c.CanceledAt = &t
	}
	if sub.Metadata != nil {
		c.Metadata = make(map[string]string, len(sub.Metadata))
		for k, v := range sub.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}
