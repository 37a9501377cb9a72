package operation

import (
	"testing"

	"github.com/jonwraymond/gqlpatch/config"
)

func TestClassify_Defaults(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		field string
		want  Kind
	}{
		{"createPost", Add},
		{"newPost", Add},
		{"insertPost", Add},
		{"importUsers", Add},
		{"updatePost", Update},
		{"editPost", Update},
		{"upsertPost", Update},
		{"activateAccount", Update},
		{"removePost", Remove},
		{"deletePost", Remove},
		{"erasedComment", Remove},
		{"posts", Auto},
		{"", Auto},
		{"onCreatePost", Add},
		{"onDeletePost", Remove},
		{"onUpdatePost", Update},
		{"CREATEPOST", Add},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := c.Classify(tt.field); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestClassify_AllDefaultPrefixes(t *testing.T) {
	c := NewClassifier(nil)
	cfg := config.Default()

	tables := []struct {
		prefixes []string
		want     Kind
	}{
		{cfg.AddPrefixes, Add},
		{cfg.RemovePrefixes, Remove},
		{cfg.UpdatePrefixes, Update},
	}
	for _, table := range tables {
		for _, p := range table.prefixes {
			for _, name := range []string{p + "Thing", "on" + p + "Thing"} {
				if got := c.Classify(name); got != table.want {
					t.Errorf("Classify(%q) = %v, want %v", name, got, table.want)
				}
			}
		}
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	cfg := config.Config{
		AddPrefixes:    []string{"sync"},
		RemovePrefixes: []string{"sync"},
		UpdatePrefixes: []string{"sync"},
	}
	if got := NewClassifier(cfg).Classify("syncPost"); got != Add {
		t.Errorf("Classify() = %v, want add to win", got)
	}

	cfg.AddPrefixes = nil
	if got := NewClassifier(cfg).Classify("syncPost"); got != Remove {
		t.Errorf("Classify() = %v, want remove before update", got)
	}
}

func TestClassify_RawPrefixMatch(t *testing.T) {
	c := NewClassifier(config.Config{RemovePrefixes: []string{"remov"}})
	if got := c.Classify("removalRequest"); got != Remove {
		t.Errorf("Classify(removalRequest) = %v, want remove", got)
	}
}

func TestClassify_ReadsStoreOnEveryCall(t *testing.T) {
	store := config.NewStore()
	c := NewClassifier(store)

	if got := c.Classify("spawnPost"); got != Auto {
		t.Fatalf("Classify() = %v, want auto before configuration", got)
	}
	if err := store.Set(config.Config{AddPrefixes: []string{"spawn"}}); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if got := c.Classify("spawnPost"); got != Add {
		t.Errorf("Classify() = %v, want add after configuration", got)
	}
}

func TestKind_StringAndParse(t *testing.T) {
	for _, k := range []Kind{Auto, Add, Update, Remove} {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q) error = %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v, want %v", k.String(), got, k)
		}
	}

	if got, err := ParseKind(""); err != nil || got != Auto {
		t.Errorf("ParseKind(\"\") = %v, %v, want auto", got, err)
	}
	if got, err := ParseKind(" Remove "); err != nil || got != Remove {
		t.Errorf("ParseKind(\" Remove \") = %v, %v, want remove", got, err)
	}
	if _, err := ParseKind("merge"); err == nil {
		t.Error("ParseKind(merge) expected error")
	}
	if got := Kind(42).String(); got != "unknown" {
		t.Errorf("Kind(42).String() = %q, want unknown", got)
	}
}
