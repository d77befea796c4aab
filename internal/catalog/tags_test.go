package catalog

import (
	"errors"
	"testing"

	"recgames/backend/internal/models"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Open World":       "open-world",
		"  Co-op  ":        "co-op",
		"Rogue_lite!!":     "rogue-lite",
		"Sci-Fi & Fantasy": "sci-fi-fantasy",
		"Ролевые игры":     "ролевые-игры",
		"***":              "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTagCRUD(t *testing.T) {
	f := newFixture(t)

	tag, err := f.svc.CreateTag(f.ctx, TagInput{Name: " Open World "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tag.Name != "Open World" || tag.Slug != "open-world" {
		t.Errorf("created %+v", tag)
	}
	if _, err := f.svc.CreateTag(f.ctx, TagInput{Name: "Open World"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate name: err = %v, want ErrConflict", err)
	}
	if _, err := f.svc.CreateTag(f.ctx, TagInput{Name: "Open-World"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate slug: err = %v, want ErrConflict", err)
	}
	if _, err := f.svc.CreateTag(f.ctx, TagInput{Name: "!!!"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty slug: err = %v, want ErrInvalidInput", err)
	}

	f.tag(t, "Coop")
	list, err := f.svc.ListTags(f.ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Coop" {
		t.Errorf("list = %+v", list)
	}

	renamed, err := f.svc.UpdateTag(f.ctx, tag.ID, TagInput{Name: "Sandbox", Slug: "sandbox"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed.Name != "Sandbox" {
		t.Errorf("renamed = %+v", renamed)
	}
	if _, err := f.svc.UpdateTag(f.ctx, tag.ID, TagInput{Name: "Coop"}); !errors.Is(err, ErrConflict) {
		t.Errorf("rename to existing: err = %v, want ErrConflict", err)
	}
	if _, err := f.svc.UpdateTag(f.ctx, 999, TagInput{Name: "Ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing tag: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTagUnlinksGames(t *testing.T) {
	f := newFixture(t)
	rpg, coop := f.tag(t, "RPG"), f.tag(t, "Coop")
	game := f.game(t, "Divinity", 9, rpg, coop)

	if err := f.svc.DeleteTag(f.ctx, rpg.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	reloaded, err := f.svc.GetGame(f.ctx, game.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !equal(reloaded.TagNames(), []string{"Coop"}) {
		t.Errorf("tags = %v, want [Coop]", reloaded.TagNames())
	}
	if n := f.count(t, &models.Tag{}, "id = ?", rpg.ID); n != 0 {
		t.Errorf("tag still present")
	}
	if err := f.svc.DeleteTag(f.ctx, rpg.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}
