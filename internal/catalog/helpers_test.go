package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"recgames/backend/internal/database/dbtest"
	"recgames/backend/internal/models"

	"gorm.io/gorm"
)

type recordedEvent struct {
	CollectionID uint
	Type         string
	Payload      any
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(collectionID uint, eventType string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{CollectionID: collectionID, Type: eventType, Payload: payload})
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	ctx    context.Context
	db     *gorm.DB
	svc    *Service
	events *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	events := &recorder{}
	svc, err := NewService(db, WithEvents(events))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{ctx: context.Background(), db: db, svc: svc, events: events}
}

func (f *fixture) user(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := f.db.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	profile := models.UserProfile{UserID: u.ID, Preferences: []string{}}
	if err := f.db.Create(&profile).Error; err != nil {
		t.Fatalf("create profile %s: %v", name, err)
	}
	return u
}

func (f *fixture) tag(t *testing.T, name string) *models.Tag {
	t.Helper()
	tag, err := f.svc.CreateTag(f.ctx, TagInput{Name: name})
	if err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

func (f *fixture) game(t *testing.T, title string, rating int, tags ...*models.Tag) *models.Game {
	t.Helper()
	ids := make([]uint, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	game, err := f.svc.CreateGame(f.ctx, GameInput{
		Title:       title,
		Genre:       models.GenreRPG,
		Developer:   "Studio",
		ReleaseYear: 2015,
		Price:       1999,
		Platform:    models.PlatformPC,
		Rating:      rating,
		TagIDs:      ids,
	})
	if err != nil {
		t.Fatalf("create game %s: %v", title, err)
	}
	return game
}

func (f *fixture) collection(t *testing.T, owner models.User, title string, public bool) *models.Collection {
	t.Helper()
	c, err := f.svc.CreateCollection(f.ctx, owner.ID, CollectionInput{Title: title, IsPublic: &public})
	if err != nil {
		t.Fatalf("create collection %s: %v", title, err)
	}
	return c
}

func (f *fixture) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Where(where, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func titles(games []models.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

func projectionTitles(games []GameProjection) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

func orders(memberships []models.GameCollection) []int {
	out := make([]int, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, m.Order)
	}
	return out
}

func equal[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %02d", prefix, i+1)
	}
	return out
}
