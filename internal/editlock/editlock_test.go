package editlock

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ngucho/scoop-afrique-sub000/internal/access"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
)

// testManager runs an in-process Valkey and returns a manager with a
// short lease so expiry can be simulated with FastForward.
func testManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewManager(client, 5*time.Minute), mr
}

func testPrincipal(name string) access.Principal {
	return access.Principal{ID: uuid.New(), DisplayName: name, Role: models.RoleAuthor}
}

func TestAcquireUnlockedGrants(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")

	grant, err := m.Acquire(ctx, articleID, alice)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !grant.Granted {
		t.Fatal("expected grant on unlocked article")
	}
	if grant.Lock == nil || grant.Lock.HolderID != alice.ID {
		t.Fatalf("expected lock held by alice, got %+v", grant.Lock)
	}
	if !grant.Lock.ExpiresAt.After(grant.Lock.AcquiredAt) {
		t.Error("expected expires_at after acquired_at")
	}
}

func TestAcquireConflictReturnsHolder(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")
	bob := testPrincipal("Bob")

	if _, err := m.Acquire(ctx, articleID, alice); err != nil {
		t.Fatalf("Acquire alice: %v", err)
	}

	grant, err := m.Acquire(ctx, articleID, bob)
	if err != nil {
		t.Fatalf("Acquire bob: %v", err)
	}
	if grant.Granted {
		t.Fatal("expected denial while alice holds the lease")
	}
	if grant.Lock == nil || grant.Lock.HolderID != alice.ID {
		t.Fatalf("expected alice as holder, got %+v", grant.Lock)
	}
	if grant.Lock.HolderName != "Alice" {
		t.Errorf("holder name: got %q, want %q", grant.Lock.HolderName, "Alice")
	}
}

func TestAcquireIdempotentForHolder(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")

	first, err := m.Acquire(ctx, articleID, alice)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := m.Acquire(ctx, articleID, alice)
	if err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if !second.Granted {
		t.Fatal("expected idempotent grant for current holder")
	}
	if !second.Lock.AcquiredAt.Equal(first.Lock.AcquiredAt) {
		t.Error("re-acquire by holder should not create a new lease")
	}
}

func TestAcquireAfterExpiry(t *testing.T) {
	m, mr := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")
	bob := testPrincipal("Bob")

	if _, err := m.Acquire(ctx, articleID, alice); err != nil {
		t.Fatalf("Acquire alice: %v", err)
	}

	// Alice's client crashes and never releases; the lease self-expires.
	mr.FastForward(6 * time.Minute)

	grant, err := m.Acquire(ctx, articleID, bob)
	if err != nil {
		t.Fatalf("Acquire bob: %v", err)
	}
	if !grant.Granted {
		t.Fatal("expected grant after lease expiry")
	}
	if grant.Lock.HolderID != bob.ID {
		t.Fatalf("expected bob as new holder, got %+v", grant.Lock)
	}
}

func TestRenewExtendsOnlyForHolder(t *testing.T) {
	m, mr := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")
	bob := testPrincipal("Bob")

	if _, err := m.Acquire(ctx, articleID, alice); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Renewal by a non-holder is a silent no-op.
	if err := m.Renew(ctx, articleID, bob); err != nil {
		t.Fatalf("Renew by non-holder: %v", err)
	}
	holder, err := m.Holder(ctx, articleID)
	if err != nil {
		t.Fatalf("Holder: %v", err)
	}
	if holder == nil || holder.HolderID != alice.ID {
		t.Fatal("non-holder renew must not alter the lease")
	}

	// Holder renews at the 4-minute mark; the lease survives past what
	// would have been its original expiry.
	mr.FastForward(4 * time.Minute)
	if err := m.Renew(ctx, articleID, alice); err != nil {
		t.Fatalf("Renew by holder: %v", err)
	}
	mr.FastForward(4 * time.Minute)

	holder, err = m.Holder(ctx, articleID)
	if err != nil {
		t.Fatalf("Holder after renew: %v", err)
	}
	if holder == nil || holder.HolderID != alice.ID {
		t.Fatal("expected lease still held after renewal")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")
	bob := testPrincipal("Bob")

	// Release with no lock at all: no error.
	if err := m.Release(ctx, articleID, alice); err != nil {
		t.Fatalf("Release on absent lock: %v", err)
	}

	if _, err := m.Acquire(ctx, articleID, alice); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	// Release by a non-holder: no error, lock untouched.
	if err := m.Release(ctx, articleID, bob); err != nil {
		t.Fatalf("Release by non-holder: %v", err)
	}
	holder, err := m.Holder(ctx, articleID)
	if err != nil {
		t.Fatalf("Holder: %v", err)
	}
	if holder == nil || holder.HolderID != alice.ID {
		t.Fatal("release by non-holder must not delete the lease")
	}

	// Release by the holder removes the lease; repeating is harmless.
	if err := m.Release(ctx, articleID, alice); err != nil {
		t.Fatalf("Release by holder: %v", err)
	}
	if err := m.Release(ctx, articleID, alice); err != nil {
		t.Fatalf("duplicate Release: %v", err)
	}
	holder, err = m.Holder(ctx, articleID)
	if err != nil {
		t.Fatalf("Holder after release: %v", err)
	}
	if holder != nil {
		t.Fatal("expected no lease after release")
	}
}

// The renew and release writes are guarded in the script itself, so a
// caller whose lease expired and was taken over between its read and
// its write can neither overwrite nor delete the new holder's lease.
func TestStaleWriteCannotTouchNewLease(t *testing.T) {
	m, mr := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")
	bob := testPrincipal("Bob")

	grant, err := m.Acquire(ctx, articleID, alice)
	if err != nil {
		t.Fatalf("Acquire alice: %v", err)
	}

	// Alice's lease expires and bob takes over. Alice's client does not
	// know yet and still believes it holds the pen.
	mr.FastForward(6 * time.Minute)
	if _, err := m.Acquire(ctx, articleID, bob); err != nil {
		t.Fatalf("Acquire bob: %v", err)
	}

	// A write carrying alice's stale lease must bounce off the guard.
	stale := *grant.Lock
	stale.ExpiresAt = time.Now().Add(m.lease)
	payload, err := json.Marshal(&stale)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	err = renewScript.Run(ctx, m.client,
		[]string{key(articleID)}, alice.ID.String(), payload, m.lease.Milliseconds(),
	).Err()
	if err != nil {
		t.Fatalf("renew script: %v", err)
	}
	holder, err := m.Holder(ctx, articleID)
	if err != nil {
		t.Fatalf("Holder: %v", err)
	}
	if holder == nil || holder.HolderID != bob.ID {
		t.Fatalf("stale renew overwrote bob's lease: %+v", holder)
	}

	err = releaseScript.Run(ctx, m.client, []string{key(articleID)}, alice.ID.String()).Err()
	if err != nil {
		t.Fatalf("release script: %v", err)
	}
	holder, err = m.Holder(ctx, articleID)
	if err != nil {
		t.Fatalf("Holder after stale release: %v", err)
	}
	if holder == nil || holder.HolderID != bob.ID {
		t.Fatal("stale release deleted bob's lease")
	}
}

func TestHeldBy(t *testing.T) {
	m, _ := testManager(t)
	ctx := context.Background()
	articleID := uuid.New()
	alice := testPrincipal("Alice")
	bob := testPrincipal("Bob")

	held, err := m.HeldBy(ctx, articleID, alice)
	if err != nil {
		t.Fatalf("HeldBy: %v", err)
	}
	if held {
		t.Fatal("no lease yet, HeldBy should be false")
	}

	if _, err := m.Acquire(ctx, articleID, alice); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if held, _ := m.HeldBy(ctx, articleID, alice); !held {
		t.Error("expected HeldBy true for holder")
	}
	if held, _ := m.HeldBy(ctx, articleID, bob); held {
		t.Error("expected HeldBy false for non-holder")
	}
}
