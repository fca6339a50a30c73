package character

import (
	"os"
	"path/filepath"
	"testing"
)

func resetCatalog(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		catalog = builtin
	})
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range All() {
		if seen[c.ID] {
			t.Errorf("duplicate character id %q", c.ID)
		}
		seen[c.ID] = true

		if c.Name == "" || c.Catchphrase == "" || c.Prompt == "" {
			t.Errorf("character %q is missing required fields", c.ID)
		}
	}
}

func TestByID(t *testing.T) {
	if _, ok := ByID("haku"); !ok {
		t.Error("haku should be in the built-in catalog")
	}
	if _, ok := ByID("nobody"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestByIDOrDefault(t *testing.T) {
	if got := ByIDOrDefault("luna"); got.ID != "luna" {
		t.Errorf("known id resolved to %q", got.ID)
	}
	def := Default()
	for _, id := range []string{"", "nobody"} {
		if got := ByIDOrDefault(id); got.ID != def.ID {
			t.Errorf("ByIDOrDefault(%q) = %q, want default %q", id, got.ID, def.ID)
		}
	}
}

func TestAllReturnsACopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Error("All must not expose the underlying catalog")
	}
}

func TestLoadUserFileMissingIsFine(t *testing.T) {
	resetCatalog(t)
	if err := LoadUserFile(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}
	if len(All()) != len(builtin) {
		t.Error("catalog changed without a user file")
	}
}

func TestLoadUserFileMergesAndOverrides(t *testing.T) {
	resetCatalog(t)

	path := filepath.Join(t.TempDir(), "characters.yaml")
	content := `
- id: sensei
  name: センセイ
  personality: 物知り
  catchphrase: 知識は力なり。
  color: "#FBBF24"
  prompt: 何でも知っている先生として答える。
- id: haku
  name: ハク
  personality: 論理的
  catchphrase: 別の口癖です。
  color: "#60A5FA"
  prompt: 上書きされたプロンプト。
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := LoadUserFile(path); err != nil {
		t.Fatalf("LoadUserFile failed: %v", err)
	}

	if len(All()) != len(builtin)+1 {
		t.Errorf("catalog size = %d, want %d", len(All()), len(builtin)+1)
	}

	added, ok := ByID("sensei")
	if !ok {
		t.Fatal("new character not added")
	}
	if added.Name != "センセイ" {
		t.Errorf("added character = %+v", added)
	}

	overridden, ok := ByID("haku")
	if !ok {
		t.Fatal("overridden character disappeared")
	}
	if overridden.Catchphrase != "別の口癖です。" {
		t.Errorf("override not applied: %+v", overridden)
	}
}

func TestLoadUserFileRejectsIncompleteEntries(t *testing.T) {
	resetCatalog(t)

	path := filepath.Join(t.TempDir(), "characters.yaml")
	if err := os.WriteFile(path, []byte("- personality: nameless\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := LoadUserFile(path); err == nil {
		t.Fatal("entries without id and name must be rejected")
	}
	if len(All()) != len(builtin) {
		t.Error("a rejected file must leave the catalog untouched")
	}
}
