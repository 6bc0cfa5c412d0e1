// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editlock implements the advisory edit lease that keeps two
// staff members from overwriting each other in the article editor. The
// lease is a Valkey key with a TTL: one writer holds the pen per
// article, a crashed client's lease self-expires, and expiry is passive
// — nothing sweeps locks, the next Acquire simply finds the key gone.
//
// The lock is cooperative. It minimizes accidental concurrent edits
// among authenticated staff; it is not a linearizable mutex, and the
// save pipeline re-checks it on every write.
package editlock

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ngucho/scoop-afrique-sub000/internal/access"
)

const (
	// DefaultLease is how long a lease lives without renewal. Clients
	// renew roughly every 3 minutes, so the lease survives a couple of
	// missed renewals before another editor can take over.
	DefaultLease = 10 * time.Minute

	// keyPrefix namespaces lock keys in Valkey.
	keyPrefix = "editlock:"
)

// Lock describes an active edit lease on one article.
type Lock struct {
	ArticleID  uuid.UUID `json:"article_id"`
	HolderID   uuid.UUID `json:"holder_id"`
	HolderName string    `json:"holder_name"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Grant is the result of an Acquire call. When Granted is false, Lock
// carries the competing holder's identity for display to the user.
type Grant struct {
	Granted bool  `json:"granted"`
	Lock    *Lock `json:"lock,omitempty"`
}

// Manager grants, renews and releases edit leases.
type Manager struct {
	client *redis.Client
	lease  time.Duration
}

// NewManager creates a lock manager backed by the given Valkey client.
// A non-positive lease falls back to DefaultLease.
func NewManager(client *redis.Client, lease time.Duration) *Manager {
	if lease <= 0 {
		lease = DefaultLease
	}
	return &Manager{client: client, lease: lease}
}

func key(articleID uuid.UUID) string {
	return keyPrefix + articleID.String()
}

// renewScript swaps in the refreshed lease only while the caller still
// holds it. The holder check and the write happen in one script, so a
// lease that expired and changed hands in between is never overwritten.
var renewScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then return 0 end
if cjson.decode(v)['holder_id'] ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// releaseScript deletes the lease only while the caller still holds it.
var releaseScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then return 0 end
if cjson.decode(v)['holder_id'] ~= ARGV[1] then return 0 end
return redis.call('DEL', KEYS[1])
`)

// Acquire attempts to take the edit lease on an article. If no active
// lease exists one is created and granted. If the caller already holds
// the lease the call is an idempotent success without refreshing the
// TTL. Otherwise the grant is denied and the current holder returned.
func (m *Manager) Acquire(ctx context.Context, articleID uuid.UUID, p access.Principal) (Grant, error) {
	// Two attempts cover the race where the competing lease expires
	// between our SetNX and the follow-up read.
	for attempt := 0; attempt < 2; attempt++ {
		now := time.Now()
		lock := &Lock{
			ArticleID:  articleID,
			HolderID:   p.ID,
			HolderName: p.DisplayName,
			AcquiredAt: now,
			ExpiresAt:  now.Add(m.lease),
		}

		payload, err := json.Marshal(lock)
		if err != nil {
			return Grant{}, fmt.Errorf("lock marshal: %w", err)
		}

		ok, err := m.client.SetNX(ctx, key(articleID), payload, m.lease).Result()
		if err != nil {
			return Grant{}, fmt.Errorf("lock acquire: %w", err)
		}
		if ok {
			return Grant{Granted: true, Lock: lock}, nil
		}

		current, err := m.get(ctx, articleID)
		if err != nil {
			return Grant{}, err
		}
		if current == nil {
			// Expired between SetNX and Get — try once more.
			continue
		}
		if current.HolderID == p.ID {
			return Grant{Granted: true, Lock: current}, nil
		}
		return Grant{Granted: false, Lock: current}, nil
	}
	return Grant{}, fmt.Errorf("lock acquire: lost race twice on article %s", articleID)
}

// Renew extends the lease only when the caller currently holds it. A
// renew by a non-holder, or on an expired lease, silently does nothing;
// the caller learns about a lost lease from its next failed save.
func (m *Manager) Renew(ctx context.Context, articleID uuid.UUID, p access.Principal) error {
	current, err := m.get(ctx, articleID)
	if err != nil {
		return err
	}
	if current == nil || current.HolderID != p.ID {
		return nil
	}

	current.ExpiresAt = time.Now().Add(m.lease)
	payload, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("lock marshal: %w", err)
	}
	err = renewScript.Run(ctx, m.client,
		[]string{key(articleID)}, p.ID.String(), payload, m.lease.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("lock renew: %w", err)
	}
	return nil
}

// Release deletes the lease if held by the caller. Releasing an absent
// lease, or one held by someone else, is a no-op — the call is safe
// under network retries and duplicate page-unload signals.
func (m *Manager) Release(ctx context.Context, articleID uuid.UUID, p access.Principal) error {
	current, err := m.get(ctx, articleID)
	if err != nil {
		return err
	}
	if current == nil || current.HolderID != p.ID {
		return nil
	}
	err = releaseScript.Run(ctx, m.client, []string{key(articleID)}, p.ID.String()).Err()
	if err != nil {
		return fmt.Errorf("lock release: %w", err)
	}
	return nil
}

// Holder returns the active lease on an article, or nil when unlocked.
func (m *Manager) Holder(ctx context.Context, articleID uuid.UUID) (*Lock, error) {
	return m.get(ctx, articleID)
}

// HeldBy reports whether the principal currently holds the lease.
func (m *Manager) HeldBy(ctx context.Context, articleID uuid.UUID, p access.Principal) (bool, error) {
	current, err := m.get(ctx, articleID)
	if err != nil {
		return false, err
	}
	return current != nil && current.HolderID == p.ID, nil
}

func (m *Manager) get(ctx context.Context, articleID uuid.UUID) (*Lock, error) {
	payload, err := m.client.Get(ctx, key(articleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock get: %w", err)
	}

	var lock Lock
	if err := json.Unmarshal(payload, &lock); err != nil {
		return nil, fmt.Errorf("lock unmarshal: %w", err)
	}
	return &lock, nil
}
