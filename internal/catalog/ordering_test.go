package catalog

import (
	"errors"
	"testing"

	"recgames/backend/internal/models"
)

func TestAddGameToCollectionAssignsNextOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	c := f.collection(t, owner, "Favourites", true)
	a, b := f.game(t, "Celeste", 9), f.game(t, "Hades", 9)

	first, err := f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, a.ID)
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	if first.Order != 1 {
		t.Errorf("first order = %d, want 1", first.Order)
	}
	second, err := f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, b.ID)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if second.Order != 2 {
		t.Errorf("second order = %d, want 2", second.Order)
	}

	_, err = f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, a.ID)
	if !errors.Is(err, ErrDuplicateMembership) {
		t.Fatalf("duplicate add: err = %v, want ErrDuplicateMembership", err)
	}
	if n := f.count(t, &models.GameCollection{}, "collection_id = ?", c.ID); n != 2 {
		t.Errorf("memberships = %d, want 2", n)
	}
	if got := f.events.types(); !equal(got, []string{EventGameAdded, EventGameAdded}) {
		t.Errorf("events = %v", got)
	}
}

func TestAddGameToCollectionErrors(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(t, "owner"), f.user(t, "other")
	c := f.collection(t, owner, "Mine", true)
	game := f.game(t, "Celeste", 9)

	cases := []struct {
		name         string
		actor        uint
		collectionID uint
		gameID       uint
		want         error
	}{
		{name: "not owner", actor: other.ID, collectionID: c.ID, gameID: game.ID, want: ErrPermissionDenied},
		{name: "missing collection", actor: owner.ID, collectionID: 999, gameID: game.ID, want: ErrNotFound},
		{name: "missing game", actor: owner.ID, collectionID: c.ID, gameID: 999, want: ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddGameToCollection(f.ctx, tc.actor, tc.collectionID, tc.gameID)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if n := f.count(t, &models.GameCollection{}, "1 = 1"); n != 0 {
		t.Errorf("memberships created on error: %d", n)
	}
}

func TestRemoveGameLeavesGaps(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(t, "owner"), f.user(t, "other")
	c := f.collection(t, owner, "Queue", true)
	games := []*models.Game{f.game(t, "A", 5), f.game(t, "B", 5), f.game(t, "C", 5)}
	for _, g := range games {
		if _, err := f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, g.ID); err != nil {
			t.Fatalf("add %s: %v", g.Title, err)
		}
	}

	if err := f.svc.RemoveGameFromCollection(f.ctx, other.ID, c.ID, games[1].ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("remove by other: err = %v, want ErrPermissionDenied", err)
	}
	if err := f.svc.RemoveGameFromCollection(f.ctx, owner.ID, c.ID, games[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := f.svc.RemoveGameFromCollection(f.ctx, owner.ID, c.ID, games[1].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("remove again: err = %v, want ErrNotFound", err)
	}

	list, err := f.svc.ListCollectionGames(f.ctx, c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !equal(orders(list), []int{1, 3}) {
		t.Fatalf("orders = %v, want [1 3]", orders(list))
	}

	again, err := f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, games[1].ID)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if again.Order != 4 {
		t.Errorf("re-added order = %d, want 4", again.Order)
	}
}

func TestListCollectionGamesOrdering(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	c := f.collection(t, owner, "Mixed", true)
	a, b, d := f.game(t, "A", 5), f.game(t, "B", 5), f.game(t, "D", 5)

	rows := []models.GameCollection{
		{CollectionID: c.ID, GameID: a.ID, Order: 5},
		{CollectionID: c.ID, GameID: b.ID, Order: 2},
		{CollectionID: c.ID, GameID: d.ID, Order: 5},
	}
	for i := range rows {
		if err := f.db.Omit("Collection", "Game").Create(&rows[i]).Error; err != nil {
			t.Fatalf("insert membership: %v", err)
		}
	}

	list, err := f.svc.ListCollectionGames(f.ctx, c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []string
	for _, m := range list {
		got = append(got, m.Game.Title)
	}
	if !equal(got, []string{"B", "A", "D"}) {
		t.Fatalf("order = %v, want [B A D]", got)
	}
}

func TestRecomputeOrder(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	c := f.collection(t, owner, "Messy", true)
	empty := f.collection(t, owner, "Empty", true)
	a, b, d := f.game(t, "A", 5), f.game(t, "B", 5), f.game(t, "D", 5)

	for _, m := range []models.GameCollection{
		{CollectionID: c.ID, GameID: a.ID, Order: 5},
		{CollectionID: c.ID, GameID: b.ID, Order: 5},
		{CollectionID: c.ID, GameID: d.ID, Order: 9},
	} {
		if err := f.db.Omit("Collection", "Game").Create(&m).Error; err != nil {
			t.Fatalf("insert membership: %v", err)
		}
	}

	n, err := f.svc.RecomputeOrder(f.ctx, c.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if n != 3 {
		t.Errorf("renumbered %d, want 3", n)
	}
	list, err := f.svc.ListCollectionGames(f.ctx, c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !equal(orders(list), []int{1, 2, 3}) {
		t.Fatalf("orders = %v, want [1 2 3]", orders(list))
	}
	var got []uint
	for _, m := range list {
		got = append(got, m.GameID)
	}
	if !equal(got, []uint{a.ID, b.ID, d.ID}) {
		t.Errorf("relative order changed: %v", got)
	}

	if n, err := f.svc.RecomputeOrder(f.ctx, empty.ID); err != nil || n != 0 {
		t.Errorf("empty collection: n=%d err=%v", n, err)
	}
	if _, err := f.svc.RecomputeOrder(f.ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing collection: err = %v, want ErrNotFound", err)
	}

	processed, err := f.svc.RecomputeAllOrders(f.ctx)
	if err != nil {
		t.Fatalf("recompute all: %v", err)
	}
	if processed != 2 {
		t.Errorf("processed = %d, want 2", processed)
	}
}
