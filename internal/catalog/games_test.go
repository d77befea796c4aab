package catalog

import (
	"context"
	"errors"
	"testing"

	"recgames/backend/internal/models"
)

func TestSearchGames(t *testing.T) {
	f := newFixture(t)
	f.game(t, "The Witcher 3", 10)
	f.game(t, "Witchfire", 7)
	f.game(t, "Hollow Knight", 9)
	f.game(t, "100% Orange Juice", 6)

	cases := []struct {
		query string
		want  []string
	}{
		{query: "Wit", want: []string{"The Witcher 3", "Witchfire"}},
		{query: "  wItCh ", want: []string{"The Witcher 3", "Witchfire"}},
		{query: "knight", want: []string{"Hollow Knight"}},
		{query: "%", want: []string{"100% Orange Juice"}},
		{query: "_", want: []string{}},
		{query: "", want: []string{}},
		{query: "   ", want: []string{}},
		{query: "zelda", want: []string{}},
	}
	for _, tc := range cases {
		got, err := f.svc.SearchGames(f.ctx, tc.query)
		if err != nil {
			t.Fatalf("search %q: %v", tc.query, err)
		}
		if !equal(titles(got), tc.want) {
			t.Errorf("search %q = %v, want %v", tc.query, titles(got), tc.want)
		}
	}
}

func TestSearchGamesLimit(t *testing.T) {
	f := newFixture(t)
	for _, title := range seq("Quest", SearchLimit+5) {
		f.game(t, title, 5)
	}
	got, err := f.svc.SearchGames(f.ctx, "quest")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != SearchLimit {
		t.Fatalf("got %d results, want %d", len(got), SearchLimit)
	}
	if got[0].Title != "Quest 01" {
		t.Errorf("first result = %q, want lowest id on equal rating", got[0].Title)
	}
}

func TestCreateGameValidation(t *testing.T) {
	f := newFixture(t)
	valid := GameInput{
		Title: "Celeste", Genre: models.GenrePuzzle, Developer: "Maddy Makes Games",
		ReleaseYear: 2018, Price: 1999, Platform: models.PlatformPC, Rating: 9,
	}

	cases := []struct {
		name   string
		mutate func(*GameInput)
	}{
		{name: "unknown genre", mutate: func(in *GameInput) { in.Genre = "Dating Sim" }},
		{name: "unknown platform", mutate: func(in *GameInput) { in.Platform = "Dreamcast" }},
		{name: "rating above ten", mutate: func(in *GameInput) { in.Rating = 11 }},
		{name: "year too early", mutate: func(in *GameInput) { in.ReleaseYear = 1969 }},
		{name: "negative price", mutate: func(in *GameInput) { in.Price = -1 }},
		{name: "missing title", mutate: func(in *GameInput) { in.Title = "" }},
		{name: "bad image url", mutate: func(in *GameInput) { in.ImageURL = "not a url" }},
		{name: "unknown tag", mutate: func(in *GameInput) { in.TagIDs = []uint{999} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if _, err := f.svc.CreateGame(f.ctx, in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}

	if _, err := f.svc.CreateGame(f.ctx, valid); err != nil {
		t.Fatalf("valid game rejected: %v", err)
	}
}

func TestUpdateGameReplacesTags(t *testing.T) {
	f := newFixture(t)
	rpg, coop, horror := f.tag(t, "RPG"), f.tag(t, "Coop"), f.tag(t, "Horror")
	game := f.game(t, "Divinity", 9, rpg, coop)

	in := GameInput{
		Title: "Divinity II", Genre: models.GenreRPG, Developer: "Larian",
		ReleaseYear: 2017, Price: 4499, Platform: models.PlatformPC, Rating: 10,
		TagIDs: []uint{horror.ID, rpg.ID},
	}
	updated, err := f.svc.UpdateGame(f.ctx, game.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Divinity II" || updated.Rating != 10 {
		t.Errorf("fields not updated: %+v", updated)
	}
	if !equal(updated.TagNames(), []string{"Horror", "RPG"}) {
		t.Errorf("tags = %v, want [Horror RPG]", updated.TagNames())
	}

	if _, err := f.svc.UpdateGame(f.ctx, 999, in); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing game: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteGameCascades(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user(t, "owner"), f.user(t, "fan")
	rpg := f.tag(t, "RPG")
	game := f.game(t, "Skyrim", 8, rpg)
	c := f.collection(t, owner, "Open worlds", true)

	if _, err := f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, game.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.svc.ToggleFavorite(f.ctx, fan.ID, game.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if _, err := f.svc.RecordRecommendation(f.ctx, fan.ID, game.ID, map[string]any{"source": "filter"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := f.svc.DeleteGame(f.ctx, game.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for name, model := range map[string]any{
		"memberships":     &models.GameCollection{},
		"favorites":       &models.Favorite{},
		"recommendations": &models.Recommendation{},
	} {
		if n := f.count(t, model, "game_id = ?", game.ID); n != 0 {
			t.Errorf("%s left: %d", name, n)
		}
	}
	var links int64
	f.db.Table("game_tags").Where("game_id = ?", game.ID).Count(&links)
	if links != 0 {
		t.Errorf("game_tags left: %d", links)
	}
	if n := f.count(t, &models.Tag{}, "id = ?", rpg.ID); n != 1 {
		t.Errorf("tag removed with game")
	}
	if err := f.svc.DeleteGame(f.ctx, game.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestGameDetailForViewer(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	game := f.game(t, "Hades", 9)
	with := f.collection(t, alice, "Roguelikes", true)
	f.collection(t, alice, "Backlog", false)

	if _, err := f.svc.AddGameToCollection(f.ctx, alice.ID, with.ID, game.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.svc.ToggleFavorite(f.ctx, alice.ID, game.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	detail, err := f.svc.GameDetail(f.ctx, game.ID, alice.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if !detail.IsFavorite {
		t.Errorf("IsFavorite = false")
	}
	if len(detail.UserCollections) != 2 {
		t.Fatalf("got %d collections, want 2", len(detail.UserCollections))
	}
	for _, m := range detail.UserCollections {
		if m.GameIsAdded != (m.Collection.ID == with.ID) {
			t.Errorf("collection %q GameIsAdded = %v", m.Collection.Title, m.GameIsAdded)
		}
	}

	anon, err := f.svc.GameDetail(f.ctx, game.ID, 0)
	if err != nil {
		t.Fatalf("anonymous detail: %v", err)
	}
	if anon.IsFavorite || len(anon.UserCollections) != 0 {
		t.Errorf("anonymous viewer got personal data: %+v", anon)
	}
	if _, err := f.svc.GameDetail(f.ctx, 999, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing game: err = %v, want ErrNotFound", err)
	}
}

func TestListGamesPaginates(t *testing.T) {
	f := newFixture(t)
	indie := f.tag(t, "Indie")
	for i, title := range seq("Game", 12) {
		if i%3 == 0 {
			f.game(t, title, 5, indie)
		} else {
			f.game(t, title, 5)
		}
	}

	page, total, err := f.svc.ListGames(f.ctx, GameListParams{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 12 || len(page) != 5 {
		t.Fatalf("total=%d len=%d, want 12 and 5", total, len(page))
	}
	if page[0].Title != "Game 07" {
		t.Errorf("page 2 starts with %q, want Game 07", page[0].Title)
	}

	tagged, total, err := f.svc.ListGames(f.ctx, GameListParams{TagIDs: []uint{indie.ID}})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if total != 4 || len(tagged) != 4 {
		t.Errorf("tagged total=%d len=%d, want 4", total, len(tagged))
	}

	ctx, cancel := context.WithCancel(f.ctx)
	cancel()
	if _, _, err := f.svc.ListGames(ctx, GameListParams{TagIDs: []uint{indie.ID}}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled list by tag: err = %v, want context.Canceled", err)
	}
}
