package updater

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jonwraymond/gqlpatch/operation"
)

func post(id int, userID int, title, date string) Item {
	return Item{"__typename": "post", "id": id, "user_id": userID, "title": title, "date": date}
}

func fixtures() (p1, p2, p3, newPost Item, posts []any) {
	p1 = post(1, 1, "A day on the beach", "2018-01-01")
	p2 = post(24, 10, "Coding for joy", "2018-12-24")
	p3 = post(25, 9, "On the road", "2018-12-25")
	newPost = post(26, 11, "New post", "2018-12-31")
	return p1, p2, p3, newPost, []any{p1, p2, p3}
}

func sameMap(a, b any) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func TestAdd(t *testing.T) {
	p1, p2, p3, newPost, posts := fixtures()
	add := For(operation.Add, "id")

	got := add.Apply(posts, newPost)
	if diff := cmp.Diff([]any{p1, p2, p3, newPost}, got); diff != "" {
		t.Errorf("add to collection mismatch (-want +got):\n%s", diff)
	}
	if len(posts) != 3 {
		t.Errorf("input collection modified: len = %d", len(posts))
	}

	if diff := cmp.Diff(any(newPost), add.Apply(Item{}, newPost)); diff != "" {
		t.Errorf("add to singleton mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_ReAddMovesToEnd(t *testing.T) {
	_, p2, p3, _, posts := fixtures()
	add := For(operation.Add, "id")

	updated := post(1, 1, "Beach again", "2019-01-01")
	got := add.Apply(posts, updated).([]any)

	if diff := cmp.Diff([]any{p2, p3, updated}, got); diff != "" {
		t.Errorf("re-add mismatch (-want +got):\n%s", diff)
	}

	count := 0
	for _, el := range got {
		if el.(Item)["id"] == 1 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one element with id 1, got %d", count)
	}
}

func TestAdd_NilIncomingCopies(t *testing.T) {
	_, _, _, _, posts := fixtures()
	got := For(operation.Add, "id").Apply(posts, nil).([]any)

	if diff := cmp.Diff(posts, got); diff != "" {
		t.Errorf("copy mismatch (-want +got):\n%s", diff)
	}
	if &got[0] == &posts[0] {
		t.Error("expected a new backing array")
	}
}

func TestRemove(t *testing.T) {
	_, p2, p3, _, posts := fixtures()
	remove := For(operation.Remove, "id")

	got := remove.Apply(posts, Item{"id": 1})
	if diff := cmp.Diff([]any{p2, p3}, got); diff != "" {
		t.Errorf("remove mismatch (-want +got):\n%s", diff)
	}

	if got := remove.Apply(Item{}, Item{"id": 1}); got != nil {
		t.Errorf("remove on singleton = %v, want nil", got)
	}
}

func TestRemove_MissingIDIsCopy(t *testing.T) {
	_, _, _, _, posts := fixtures()
	got := For(operation.Remove, "id").Apply(posts, Item{"id": 999})

	if diff := cmp.Diff(posts, got); diff != "" {
		t.Errorf("remove of unknown id changed the collection (-want +got):\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	p1, p2, p3, _, posts := fixtures()
	update := For(operation.Update, "id")
	updatedPost := Item{"id": 25, "title": "Updated post", "__typename": "post"}

	got := update.Apply(posts, updatedPost).([]any)

	want3 := post(25, 9, "Updated post", "2018-12-25")
	if diff := cmp.Diff([]any{p1, p2, want3}, got); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
	if !sameMap(got[0], p1) || !sameMap(got[1], p2) {
		t.Error("non-matching elements must keep identity")
	}
	if sameMap(got[2], p3) {
		t.Error("matching element must be a new map")
	}
	if p3["title"] != "On the road" {
		t.Error("original element modified")
	}

	single := update.Apply(p3, updatedPost)
	if diff := cmp.Diff(any(want3), single); diff != "" {
		t.Errorf("update singleton mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_OnlyExistingKeys(t *testing.T) {
	old := Item{"__typename": "post", "id": 1, "title": "old"}
	incoming := Item{"__typename": "article", "id": 1, "title": "new", "extra": true}

	got := For(operation.Update, "id").Apply([]any{old}, incoming).([]any)

	want := Item{"__typename": "post", "id": 1, "title": "new"}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_NilAndScalarSingleton(t *testing.T) {
	update := For(operation.Update, "id")
	if got := update.Apply(nil, Item{"id": 1}); got != nil {
		t.Errorf("update nil singleton = %v, want nil", got)
	}
	if got := update.Apply("scalar", Item{"id": 1}); got != "scalar" {
		t.Errorf("update scalar singleton = %v, want unchanged", got)
	}

	old := Item{"id": 1, "title": "x"}
	got := update.Apply(old, nil).(Item)
	if diff := cmp.Diff(old, got); diff != "" {
		t.Errorf("update with nil incoming mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdate_CustomIDField(t *testing.T) {
	p1, p2, _, _, posts := fixtures()
	update := For(operation.Update, "user_id")

	got := update.Apply(posts, Item{"user_id": 9, "title": "Updated post"}).([]any)

	if diff := cmp.Diff([]any{p1, p2, post(25, 9, "Updated post", "2018-12-25")}, got); diff != "" {
		t.Errorf("update by user_id mismatch (-want +got):\n%s", diff)
	}
}

func TestAuto_Identity(t *testing.T) {
	_, _, _, _, posts := fixtures()
	got := For(operation.Auto, "id").Apply(posts, Item{"id": 1}).([]any)
	if &got[0] != &posts[0] {
		t.Error("auto must return the same collection")
	}
	if got := For(operation.Kind(99), "id").Apply("x", nil); got != "x" {
		t.Errorf("unknown kind = %v, want identity", got)
	}
}

func TestIdentityMatching(t *testing.T) {
	tests := []struct {
		name string
		el   any
		item Item
		want bool
	}{
		{"int vs float64", Item{"id": 1}, Item{"id": 1.0}, true},
		{"int vs json.Number", Item{"id": json.Number("26")}, Item{"id": 26}, true},
		{"strings", Item{"id": "a"}, Item{"id": "a"}, true},
		{"different strings", Item{"id": "a"}, Item{"id": "b"}, false},
		{"string vs number", Item{"id": "1"}, Item{"id": 1}, false},
		{"large int64 neighbours", Item{"id": int64(1 << 53)}, Item{"id": int64(1<<53 + 1)}, false},
		{"large int64 equal", Item{"id": int64(1<<53 + 1)}, Item{"id": int64(1<<53 + 1)}, true},
		{"large json.Number neighbours", Item{"id": json.Number("9007199254740992")}, Item{"id": json.Number("9007199254740993")}, false},
		{"large json.Number vs int64", Item{"id": json.Number("9007199254740993")}, Item{"id": int64(9007199254740993)}, true},
		{"uint64 vs int64", Item{"id": uint64(1<<63 + 1)}, Item{"id": int64(1 << 62)}, false},
		{"int vs fractional float", Item{"id": 1}, Item{"id": 1.5}, false},
		{"json.Number float", Item{"id": json.Number("2.5")}, Item{"id": 2.5}, true},
		{"both absent", Item{"title": "x"}, Item{"title": "y"}, true},
		{"absent vs present", Item{"title": "x"}, Item{"id": 1}, false},
		{"absent vs null", Item{}, Item{"id": nil}, false},
		{"null vs null", Item{"id": nil}, Item{"id": nil}, true},
		{"non-object element", "scalar", Item{"id": 1}, false},
		{"uncomparable", Item{"id": []any{1}}, Item{"id": []any{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idOf(tt.item, "id").matches(elementID(tt.el, "id"))
			if got != tt.want {
				t.Errorf("matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemove_LargeIntegerIDs(t *testing.T) {
	tests := []struct {
		name       string
		keep, drop any
	}{
		{"int64", int64(9007199254740992), int64(9007199254740993)},
		{"json.Number", json.Number("9007199254740992"), json.Number("9007199254740993")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept := Item{"id": tt.keep}
			current := []any{kept, Item{"id": tt.drop}}

			got := For(operation.Remove, "id").Apply(current, Item{"id": tt.drop})
			if diff := cmp.Diff([]any{kept}, got); diff != "" {
				t.Errorf("Remove mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	typed := []map[string]any{{"id": 1}, {"id": 2}}
	v := ValueOf(typed)
	if v.Shape != Collection || len(v.Items) != 2 {
		t.Fatalf("ValueOf(typed slice) = %+v, want collection of 2", v)
	}
	if !sameMap(v.Items[0], typed[0]) {
		t.Error("typed slice elements must be shared")
	}

	if v := ValueOf(Item{"id": 1}); v.Shape != Singleton {
		t.Errorf("ValueOf(map).Shape = %v, want singleton", v.Shape)
	}
	if v := ValueOf(nil); v.Shape != Singleton || v.Unwrap() != nil {
		t.Errorf("ValueOf(nil) = %+v, want empty singleton", v)
	}
}
