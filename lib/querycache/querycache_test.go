// Copyright 2026 The Harbor Authors
// SPDX-License-Identifier: Apache-2.0

package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyString(t *testing.T) {
	key := Key{"list-updates", "opp-1"}
	want := "list-updates\x1fopp-1"
	if got := key.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKeyHasPrefix(t *testing.T) {
	key := Key{"list-updates", "opp-1", "page-2"}
	cases := []struct {
		name   string
		prefix Key
		want   bool
	}{
		{"exact", Key{"list-updates", "opp-1", "page-2"}, true},
		{"shorter", Key{"list-updates", "opp-1"}, true},
		{"single", Key{"list-updates"}, true},
		{"empty", Key{}, true},
		{"mismatch", Key{"list-files"}, false},
		{"longer", Key{"list-updates", "opp-1", "page-2", "x"}, false},
	}
	for _, testCase := range cases {
		if got := key.HasPrefix(testCase.prefix); got != testCase.want {
			t.Errorf("%s: HasPrefix(%v) = %v, want %v", testCase.name, testCase.prefix, got, testCase.want)
		}
	}
}

func TestFetchCachesResult(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Close()

	var calls atomic.Int64
	fetcher := func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"first"}, nil
	}

	key := Key{"list-updates", "opp-1"}
	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), cache, key, fetcher)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(got) != 1 || got[0] != "first" {
			t.Fatalf("Fetch = %v, want [first]", got)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher ran %d times, want 1", calls.Load())
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestFetchErrorNotCached(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Close()

	var calls atomic.Int64
	failing := errors.New("backend down")
	fetcher := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "", failing
		}
		return "recovered", nil
	}

	key := Key{"list-files", "job-9"}
	if _, err := Fetch(context.Background(), cache, key, fetcher); !errors.Is(err, failing) {
		t.Fatalf("first Fetch error = %v, want %v", err, failing)
	}
	if cache.Len() != 0 {
		t.Fatalf("error was cached: Len() = %d", cache.Len())
	}
	got, err := Fetch(context.Background(), cache, key, fetcher)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if got != "recovered" {
		t.Errorf("second Fetch = %q, want %q", got, "recovered")
	}
}

func TestFetchSingleFlight(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Close()

	var calls atomic.Int64
	gate := make(chan struct{})
	fetcher := func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-gate
		return 42, nil
	}

	key := Key{"list-updates", "opp-7"}
	const workers = 8
	var group sync.WaitGroup
	results := make([]int, workers)
	failures := make([]error, workers)
	for index := 0; index < workers; index++ {
		group.Add(1)
		go func(index int) {
			defer group.Done()
			results[index], failures[index] = Fetch(context.Background(), cache, key, fetcher)
		}(index)
	}

	// Let the goroutines pile onto the flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	group.Wait()

	for index := 0; index < workers; index++ {
		if failures[index] != nil {
			t.Fatalf("worker %d: %v", index, failures[index])
		}
		if results[index] != 42 {
			t.Errorf("worker %d got %d, want 42", index, results[index])
		}
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher ran %d times, want 1", calls.Load())
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Close()

	var calls atomic.Int64
	fetcher := func(ctx context.Context) (int64, error) {
		return calls.Add(1), nil
	}

	key := Key{"list-updates", "opp-1"}
	first, _ := Fetch(context.Background(), cache, key, fetcher)
	cache.Invalidate(key)
	second, err := Fetch(context.Background(), cache, key, fetcher)
	if err != nil {
		t.Fatalf("Fetch after Invalidate: %v", err)
	}
	if first != 1 || second != 2 {
		t.Errorf("fetch sequence = %d, %d; want 1, 2", first, second)
	}
}

func TestInvalidatePrefix(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Close()

	store := func(key Key, value string) {
		if _, err := Fetch(context.Background(), cache, key, func(ctx context.Context) (string, error) {
			return value, nil
		}); err != nil {
			t.Fatalf("Fetch %v: %v", key, err)
		}
	}
	store(Key{"list-updates", "opp-1"}, "a")
	store(Key{"list-updates", "opp-1", "page-2"}, "b")
	store(Key{"list-updates", "opp-12"}, "c")
	store(Key{"list-files", "opp-1"}, "d")

	cache.InvalidatePrefix(Key{"list-updates", "opp-1"})

	if cache.Len() != 2 {
		t.Fatalf("Len() = %d after prefix invalidation, want 2", cache.Len())
	}
	// "opp-12" must survive: prefix matching is per-fragment, not a
	// raw string prefix of the entity ID.
	var refetched atomic.Int64
	got, err := Fetch(context.Background(), cache, Key{"list-updates", "opp-12"}, func(ctx context.Context) (string, error) {
		refetched.Add(1)
		return "c2", nil
	})
	if err != nil {
		t.Fatalf("Fetch survivor: %v", err)
	}
	if got != "c" || refetched.Load() != 0 {
		t.Errorf("survivor re-fetched: got %q, fetcher ran %d times", got, refetched.Load())
	}
}

func TestFetchTypeMismatch(t *testing.T) {
	cache := New(time.Minute)
	defer cache.Close()

	key := Key{"list-updates", "opp-1"}
	if _, err := Fetch(context.Background(), cache, key, func(ctx context.Context) (string, error) {
		return "text", nil
	}); err != nil {
		t.Fatalf("seed Fetch: %v", err)
	}
	_, err := Fetch(context.Background(), cache, key, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	if err == nil {
		t.Fatal("expected type mismatch error, got nil")
	}
}
