package catalog

import (
	"errors"
	"testing"

	"recgames/backend/internal/models"
)

func collectionsCount(t *testing.T, f *fixture, userID uint) int {
	t.Helper()
	var p models.UserProfile
	if err := f.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return p.CollectionsCount
}

func statTitles(stats []CollectionStats) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Title)
	}
	return out
}

func TestCreateAndDeleteCollectionKeepCounts(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user(t, "owner"), f.user(t, "fan")
	game := f.game(t, "Celeste", 9)

	c, err := f.svc.CreateCollection(f.ctx, owner.ID, CollectionInput{Title: "  Platformers  "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Title != "Platformers" || !c.IsPublic {
		t.Errorf("created %+v, want trimmed public collection", c)
	}
	f.collection(t, owner, "Other", false)
	if got := collectionsCount(t, f, owner.ID); got != 2 {
		t.Fatalf("collections_count = %d, want 2", got)
	}

	if _, err := f.svc.AddGameToCollection(f.ctx, owner.ID, c.ID, game.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.svc.ToggleCollectionLike(f.ctx, fan.ID, c.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := f.svc.DeleteCollection(f.ctx, fan.ID, c.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("delete by non-owner: err = %v, want ErrPermissionDenied", err)
	}
	if err := f.svc.DeleteCollection(f.ctx, owner.ID, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := collectionsCount(t, f, owner.ID); got != 1 {
		t.Errorf("collections_count = %d, want 1", got)
	}
	if n := f.count(t, &models.GameCollection{}, "collection_id = ?", c.ID); n != 0 {
		t.Errorf("memberships left: %d", n)
	}
	if n := f.count(t, &models.CollectionLike{}, "collection_id = ?", c.ID); n != 0 {
		t.Errorf("likes left: %d", n)
	}
	if n := f.count(t, &models.Game{}, "id = ?", game.ID); n != 1 {
		t.Errorf("game deleted with collection")
	}

	if _, err := f.svc.CreateCollection(f.ctx, owner.ID, CollectionInput{Title: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank title: err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateCollection(t *testing.T) {
	f := newFixture(t)
	owner, other := f.user(t, "owner"), f.user(t, "other")
	c := f.collection(t, owner, "Draft", false)

	updated, err := f.svc.UpdateCollection(f.ctx, owner.ID, c.ID, CollectionInput{Title: "Final", Description: "done"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Final" || updated.Description != "done" || updated.IsPublic {
		t.Errorf("updated = %+v", updated)
	}

	public := true
	updated, err = f.svc.UpdateCollection(f.ctx, owner.ID, c.ID, CollectionInput{Title: "Final", IsPublic: &public})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !updated.IsPublic {
		t.Errorf("IsPublic = false after publishing")
	}

	if _, err := f.svc.ToggleCollectionLike(f.ctx, other.ID, c.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := f.db.Model(&models.Collection{}).Where("id = ?", c.ID).UpdateColumn("likes_count", 42).Error; err != nil {
		t.Fatalf("skew likes_count: %v", err)
	}
	updated, err = f.svc.UpdateCollection(f.ctx, owner.ID, c.ID, CollectionInput{Title: "Final"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Likes != 1 {
		t.Errorf("likes = %d, want live count 1", updated.Likes)
	}

	if _, err := f.svc.UpdateCollection(f.ctx, other.ID, c.ID, CollectionInput{Title: "Hijack"}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("update by other: err = %v, want ErrPermissionDenied", err)
	}
}

func TestCollectionDetailVisibility(t *testing.T) {
	f := newFixture(t)
	owner, bob := f.user(t, "owner"), f.user(t, "bob")
	private := f.collection(t, owner, "Secret", false)
	public := f.collection(t, owner, "Shared", true)
	game := f.game(t, "Celeste", 9)
	if _, err := f.svc.AddGameToCollection(f.ctx, owner.ID, public.ID, game.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := f.svc.CollectionDetail(f.ctx, private.ID, bob.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("private for bob: err = %v, want ErrPermissionDenied", err)
	}
	if _, err := f.svc.CollectionDetail(f.ctx, private.ID, 0); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("private for anonymous: err = %v, want ErrPermissionDenied", err)
	}
	view, err := f.svc.CollectionDetail(f.ctx, private.ID, owner.ID)
	if err != nil || !view.IsOwner {
		t.Fatalf("private for owner: view=%+v err=%v", view, err)
	}

	if _, err := f.svc.ToggleCollectionLike(f.ctx, bob.ID, public.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	view, err = f.svc.CollectionDetail(f.ctx, public.ID, bob.ID)
	if err != nil {
		t.Fatalf("public for bob: %v", err)
	}
	if view.IsOwner || !view.IsLiked || view.Likes != 1 || len(view.Games) != 1 {
		t.Errorf("bob view = %+v", view)
	}
	view, err = f.svc.CollectionDetail(f.ctx, public.ID, owner.ID)
	if err != nil {
		t.Fatalf("public for owner: %v", err)
	}
	if view.IsLiked {
		t.Errorf("owner view reports IsLiked")
	}
	if _, err := f.svc.CollectionDetail(f.ctx, 999, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
}

func TestPopularAndListCollections(t *testing.T) {
	f := newFixture(t)
	owner, alice, bob, carol := f.user(t, "owner"), f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	quiet := f.collection(t, owner, "Quiet RPGs", true)
	loud := f.collection(t, owner, "Loud shooters", true)
	hidden := f.collection(t, owner, "Hidden RPGs", true)
	mine := f.collection(t, alice, "Alice RPGs", true)
	for _, u := range []models.User{alice, bob, carol} {
		if _, err := f.svc.ToggleCollectionLike(f.ctx, u.ID, loud.ID); err != nil {
			t.Fatalf("like loud: %v", err)
		}
	}
	if _, err := f.svc.ToggleCollectionLike(f.ctx, bob.ID, hidden.ID); err != nil {
		t.Fatalf("like hidden: %v", err)
	}
	if _, err := f.svc.SetCollectionsVisibility(f.ctx, []uint{hidden.ID}, false); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, err := f.svc.ToggleCollectionLike(f.ctx, bob.ID, mine.ID); err != nil {
		t.Fatalf("like mine: %v", err)
	}

	popular, err := f.svc.PopularCollections(f.ctx, 0)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if !equal(statTitles(popular), []string{"Loud shooters", "Alice RPGs", "Quiet RPGs"}) {
		t.Fatalf("popular = %v", statTitles(popular))
	}
	if popular[0].Likes != 3 || popular[0].ID != loud.ID {
		t.Errorf("top collection = %+v", popular[0])
	}

	page, err := f.svc.ListCollections(f.ctx, alice.ID, "rpg")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !equal(statTitles(page.Mine), []string{"Alice RPGs"}) {
		t.Errorf("mine = %v", statTitles(page.Mine))
	}
	if !equal(statTitles(page.Popular), []string{"Quiet RPGs"}) {
		t.Errorf("popular = %v", statTitles(page.Popular))
	}
	if quiet.ID == 0 {
		t.Fatal("quiet collection not created")
	}

	anon, err := f.svc.ListCollections(f.ctx, 0, "")
	if err != nil {
		t.Fatalf("anonymous list: %v", err)
	}
	if len(anon.Mine) != 0 || len(anon.Popular) != 3 {
		t.Errorf("anonymous page: mine=%d popular=%d", len(anon.Mine), len(anon.Popular))
	}
}

func TestPopularCollectionsLimit(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner")
	for _, title := range seq("List", PopularCollectionsLimit+2) {
		f.collection(t, owner, title, true)
	}
	popular, err := f.svc.PopularCollections(f.ctx, 0)
	if err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(popular) != PopularCollectionsLimit {
		t.Errorf("got %d, want %d", len(popular), PopularCollectionsLimit)
	}
}

func TestHomeAndFavorites(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user(t, "owner"), f.user(t, "fan")
	var games []*models.Game
	for _, title := range seq("Game", LatestGamesLimit+2) {
		games = append(games, f.game(t, title, 5))
	}
	liked := f.collection(t, owner, "Liked", true)
	own := f.collection(t, fan, "Own", true)
	if _, err := f.svc.ToggleCollectionLike(f.ctx, fan.ID, liked.ID); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := f.svc.ToggleCollectionLike(f.ctx, owner.ID, own.ID); err != nil {
		t.Fatalf("like own: %v", err)
	}

	newest, oldest := games[len(games)-1], games[0]
	for _, g := range []*models.Game{oldest, newest} {
		if _, err := f.svc.ToggleFavorite(f.ctx, fan.ID, g.ID); err != nil {
			t.Fatalf("favorite: %v", err)
		}
	}

	home, err := f.svc.Home(f.ctx, fan.ID)
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if len(home.LatestGames) != LatestGamesLimit || home.LatestGames[0].ID != newest.ID {
		t.Errorf("latest games = %v", titles(home.LatestGames))
	}
	if !home.FavoriteGameIDs[newest.ID] || home.FavoriteGameIDs[oldest.ID] {
		t.Errorf("favorite ids = %v", home.FavoriteGameIDs)
	}
	if len(home.PopularCollections) != 2 {
		t.Errorf("popular = %v", statTitles(home.PopularCollections))
	}

	favs, err := f.svc.Favorites(f.ctx, fan.ID)
	if err != nil {
		t.Fatalf("favorites: %v", err)
	}
	if len(favs.Games) != 2 {
		t.Errorf("favorite games = %v", titles(favs.Games))
	}
	if !equal(statTitles(favs.LikedCollections), []string{"Liked"}) || favs.LikedCollections[0].Likes != 1 {
		t.Errorf("liked collections = %+v", favs.LikedCollections)
	}
}

func TestFavoritesHidePrivateLikedCollections(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user(t, "owner"), f.user(t, "fan")
	c := f.collection(t, owner, "Shelf", true)
	if _, err := f.svc.ToggleCollectionLike(f.ctx, fan.ID, c.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	private, public := false, true
	for _, step := range []struct {
		isPublic *bool
		want     []string
	}{
		{&private, []string{}},
		{&public, []string{"Shelf"}},
	} {
		if _, err := f.svc.UpdateCollection(f.ctx, owner.ID, c.ID, CollectionInput{Title: "Shelf", IsPublic: step.isPublic}); err != nil {
			t.Fatalf("set public=%v: %v", *step.isPublic, err)
		}
		favs, err := f.svc.Favorites(f.ctx, fan.ID)
		if err != nil {
			t.Fatalf("favorites: %v", err)
		}
		if got := statTitles(favs.LikedCollections); !equal(got, step.want) {
			t.Errorf("public=%v: liked collections = %v, want %v", *step.isPublic, got, step.want)
		}
	}
}
