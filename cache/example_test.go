package cache_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/gqlpatch/cache"
)

func ExampleNewMemoryCache() {
	c := cache.NewMemoryCache(cache.DefaultPolicy())
	ctx := context.Background()

	_ = c.Set(ctx, "gql:example", []byte(`{"posts":[]}`), 5*time.Minute)

	value, ok := c.Get(ctx, "gql:example")
	fmt.Println("Found:", ok)
	fmt.Println("Value:", string(value))
	// Output:
	// Found: true
	// Value: {"posts":[]}
}

func ExampleMemoryCache_Delete() {
	c := cache.NewMemoryCache(cache.DefaultPolicy())
	ctx := context.Background()

	_ = c.Set(ctx, "gql:example", []byte("data"), 5*time.Minute)
	_ = c.Delete(ctx, "gql:example")

	_, ok := c.Get(ctx, "gql:example")
	fmt.Println("Found after delete:", ok)
	// Output:
	// Found after delete: false
}

func ExampleDefaultKeyer_Key() {
	keyer := cache.NewDefaultKeyer()

	key, _ := keyer.Key(cache.Query{
		Document:  `query posts($first: Int) { posts(first: $first) { id } }`,
		Variables: map[string]any{"first": 10},
	})

	fmt.Println("Prefix:", strings.SplitN(key, ":", 2)[0])
	fmt.Println("Length:", len(key))
	// Output:
	// Prefix: gql
	// Length: 20
}

func ExampleDefaultPolicy() {
	policy := cache.DefaultPolicy()

	fmt.Println("DefaultTTL:", policy.DefaultTTL)
	fmt.Println("MaxTTL:", policy.MaxTTL)
	fmt.Println("ShouldCache:", policy.ShouldCache())
	// Output:
	// DefaultTTL: 24h0m0s
	// MaxTTL: 168h0m0s
	// ShouldCache: true
}

func ExamplePolicy_EffectiveTTL() {
	policy := cache.Policy{
		DefaultTTL: 5 * time.Minute,
		MaxTTL:     1 * time.Hour,
	}

	fmt.Println("No override:", policy.EffectiveTTL(0))
	fmt.Println("Override 10m:", policy.EffectiveTTL(10*time.Minute))
	fmt.Println("Override 2h (clamped):", policy.EffectiveTTL(2*time.Hour))
	// Output:
	// No override: 5m0s
	// Override 10m: 10m0s
	// Override 2h (clamped): 1h0m0s
}

func ExampleMemoryStore() {
	store := cache.NewMemoryStore(nil)
	ctx := context.Background()
	q := cache.Query{Document: `query posts { posts { id } }`}

	_, err := store.ReadQuery(ctx, q)
	fmt.Println("Miss:", errors.Is(err, cache.ErrCacheMiss))

	_ = store.WriteQuery(ctx, q, map[string]any{"posts": []any{}})
	data, _ := store.ReadQuery(ctx, q)
	fmt.Println("Posts:", data["posts"])
	// Output:
	// Miss: true
	// Posts: []
}

func ExampleQueryMiddleware_Execute() {
	store := cache.NewMemoryStore(nil)
	mw := cache.NewQueryMiddleware(store, nil, cache.DefaultPolicy(), nil)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context, q cache.Query) (map[string]any, error) {
		calls++
		return map[string]any{"posts": []any{"p1"}}, nil
	}

	q := cache.Query{Document: `query posts { posts { id } }`}
	_, _ = mw.Execute(ctx, q, fetch)
	result, _ := mw.Execute(ctx, q, fetch)

	fmt.Println("Result:", result["posts"])
	fmt.Println("Fetch calls:", calls)
	// Output:
	// Result: [p1]
	// Fetch calls: 1
}
