package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQuotaDrainsToZeroAndNeverBelow(t *testing.T) {
	f := newFixture(t, 3, 5)
	ctx := context.Background()
	const userID int64 = 200

	for i := 0; i < 3; i++ {
		decision, err := f.entitlement.CheckAndConsume(ctx, userID)
		if err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
		if decision != Allowed {
			t.Fatalf("consume %d denied with quota remaining", i)
		}
	}

	decision, err := f.entitlement.CheckAndConsume(ctx, userID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if decision != Denied {
		t.Fatal("consume allowed past zero")
	}

	quota, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if quota.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", quota.Remaining)
	}
	if quota.CanApply() {
		t.Fatal("exhausted quota still allows apply")
	}
}

func TestConcurrentConsumeSpendsLastSlotOnce(t *testing.T) {
	f := newFixture(t, 1, 5)
	ctx := context.Background()
	const userID int64 = 201

	// Materialize the record first so both goroutines race on the
	// decrement, not on creation.
	if _, err := f.entitlements.GetOrCreate(ctx, userID); err != nil {
		t.Fatalf("get or create: %v", err)
	}

	const workers = 2
	decisions := make([]Decision, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decisions[i], errs[i] = f.entitlement.CheckAndConsume(ctx, userID)
		}(i)
	}
	wg.Wait()

	allowed := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if decisions[i] == Allowed {
			allowed++
		}
	}
	if allowed != 1 {
		t.Fatalf("allowed = %d, want exactly 1", allowed)
	}

	quota, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if quota.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", quota.Remaining)
	}
}

func TestPremiumBypassesCounter(t *testing.T) {
	f := newFixture(t, 2, 5)
	ctx := context.Background()
	const userID int64 = 202

	if _, err := f.entitlement.GrantPremium(ctx, userID, 30*24*time.Hour, 4.99); err != nil {
		t.Fatalf("grant premium: %v", err)
	}

	before, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if !before.Premium {
		t.Fatal("premium not active after grant")
	}

	for i := 0; i < 5; i++ {
		decision, err := f.entitlement.CheckAndConsume(ctx, userID)
		if err != nil {
			t.Fatalf("consume %d: %v", i, err)
		}
		if decision != Allowed {
			t.Fatalf("consume %d denied for premium user", i)
		}
	}

	after, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if after.Remaining != before.Remaining {
		t.Fatalf("premium consume touched the counter: %d -> %d", before.Remaining, after.Remaining)
	}
}

func TestExpiredPremiumFallsBackToCounter(t *testing.T) {
	f := newFixture(t, 10, 5)
	ctx := context.Background()
	const userID int64 = 203

	if _, err := f.entitlements.GetOrCreate(ctx, userID); err != nil {
		t.Fatalf("get or create: %v", err)
	}
	expired := time.Now().Add(-time.Hour)
	if err := f.entitlements.SetPremium(ctx, userID, expired, 2); err != nil {
		t.Fatalf("set premium: %v", err)
	}

	quota, err := f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if quota.Premium {
		t.Fatal("expired premium reported active")
	}

	decision, err := f.entitlement.CheckAndConsume(ctx, userID)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if decision != Allowed {
		t.Fatal("free slot denied after premium expiry")
	}

	quota, err = f.entitlement.Peek(ctx, userID)
	if err != nil {
		t.Fatalf("peek: %v", err)
	}
	if quota.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", quota.Remaining)
	}

	// The stale flag is cleared on the way through.
	ent, err := f.entitlements.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if ent.IsPremium {
		t.Fatal("stale premium flag not cleared")
	}
}

func TestGrantPremiumOverwritesInsteadOfStacking(t *testing.T) {
	f := newFixture(t, 10, 5)
	ctx := context.Background()
	const userID int64 = 204

	if _, err := f.entitlement.GrantPremium(ctx, userID, 30*24*time.Hour, 4.99); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if _, err := f.entitlement.GrantPremium(ctx, userID, 30*24*time.Hour, 4.99); err != nil {
		t.Fatalf("second grant: %v", err)
	}

	ent, err := f.entitlements.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("get or create: %v", err)
	}
	if ent.PremiumUntil == nil {
		t.Fatal("premium window missing")
	}
	// Overwrite semantics: the window ends about one period from now,
	// not two.
	limit := time.Now().Add(31 * 24 * time.Hour)
	if ent.PremiumUntil.After(limit) {
		t.Fatalf("premium until %v stacked beyond one period", ent.PremiumUntil)
	}
}
