package tags

import "testing"

func TestNewTagBuilder(t *testing.T) {
	t.Parallel()

	got := NewTagBuilder("run-1").Map()

	if got[KeyID] != "run-1" {
		t.Errorf("expected %s=%q, got %q", KeyID, "run-1", got[KeyID])
	}
	if got[KeyManagedBy] != ManagedByAppboot {
		t.Errorf("expected %s=%q, got %q", KeyManagedBy, ManagedByAppboot, got[KeyManagedBy])
	}
	if _, ok := got[KeyName]; ok {
		t.Errorf("expected no %s tag", KeyName)
	}
}

func TestTagBuilder_Build(t *testing.T) {
	t.Parallel()

	got := NewTagBuilder("run-1").
		WithName("acs-assignment-vpc").
		Merge(map[string]string{"team": "web"}).
		Build()

	want := []Tag{
		{Key: KeyID, Value: "run-1"},
		{Key: KeyName, Value: "acs-assignment-vpc"},
		{Key: KeyManagedBy, Value: ManagedByAppboot},
		{Key: "team", Value: "web"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTagBuilder_EmptyName(t *testing.T) {
	t.Parallel()

	got := NewTagBuilder("run-1").WithName("").Map()
	if _, ok := got[KeyName]; ok {
		t.Error("empty name must not be tagged")
	}
}

func TestTagBuilder_MapIsCopy(t *testing.T) {
	t.Parallel()

	b := NewTagBuilder("run-1")
	m := b.Map()
	m[KeyID] = "changed"

	if b.Map()[KeyID] != "run-1" {
		t.Error("Map must return a copy")
	}
}
