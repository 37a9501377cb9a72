package patch_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/gqlpatch/cache"
	"github.com/jonwraymond/gqlpatch/config"
	"github.com/jonwraymond/gqlpatch/operation"
	"github.com/jonwraymond/gqlpatch/patch"
)

const postsQuery = `query posts { posts { id title } }`

func seed() *cache.MemoryStore {
	store := cache.NewMemoryStore(nil)
	_ = store.WriteQuery(context.Background(), cache.Query{Document: postsQuery}, map[string]any{
		"posts": []any{
			map[string]any{"id": 1, "title": "A day on the beach"},
			map[string]any{"id": 2, "title": "Coding for joy"},
		},
	})
	return store
}

func titles(store *cache.MemoryStore) []any {
	data, _ := store.ReadQuery(context.Background(), cache.Query{Document: postsQuery})
	var out []any
	for _, p := range data["posts"].([]any) {
		out = append(out, p.(map[string]any)["title"])
	}
	return out
}

func ExampleEngine_Patch() {
	store := seed()
	engine := patch.New()

	outcome := engine.Patch(context.Background(), store, patch.Request{
		Payload: map[string]any{"createPost": map[string]any{"id": 3, "title": "New post"}},
		Query:   cache.Query{Document: postsQuery},
	})

	fmt.Println("Outcome:", outcome)
	fmt.Println("Titles:", titles(store))
	// Output:
	// Outcome: applied
	// Titles: [A day on the beach Coding for joy New post]
}

func ExampleEngine_Patch_explicitKind() {
	store := seed()
	engine := patch.New()

	outcome := engine.Patch(context.Background(), store, patch.Request{
		Payload: map[string]any{"archivePost": map[string]any{"id": 1}},
		Query:   cache.Query{Document: postsQuery},
		Kind:    operation.Remove,
	})

	fmt.Println("Outcome:", outcome)
	fmt.Println("Titles:", titles(store))
	// Output:
	// Outcome: applied
	// Titles: [Coding for joy]
}

func ExampleEngine_Patch_notCached() {
	engine := patch.New()

	outcome := engine.Patch(context.Background(), cache.NewMemoryStore(nil), patch.Request{
		Payload: map[string]any{"createPost": map[string]any{"id": 3}},
		Query:   cache.Query{Document: postsQuery},
	})

	fmt.Println("Outcome:", outcome)
	fmt.Println("Applied:", outcome.Applied())
	// Output:
	// Outcome: not_cached
	// Applied: false
}

func ExampleEngine_OnResult() {
	store := seed()
	cfg, _ := config.NewStoreWith(config.Config{UpdatePrefixes: []string{"rename"}})
	engine := patch.New(patch.WithConfig(cfg))

	onResult := engine.OnResult(store, patch.Request{Query: cache.Query{Document: postsQuery}})
	onResult(context.Background(), map[string]any{
		"renamePost": map[string]any{"id": 2, "title": "Coding for fun"},
	})

	fmt.Println("Titles:", titles(store))
	// Output:
	// Titles: [A day on the beach Coding for fun]
}
