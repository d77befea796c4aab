package catalog

import (
	"context"
	"fmt"
	"strings"

	"recgames/backend/internal/models"

	"gorm.io/gorm"
)

const PopularCollectionsLimit = 6

// CollectionStats is a collection with its live like count.
type CollectionStats struct {
	models.Collection
	Likes int64
}

// CollectionView is a collection as seen by a particular viewer.
type CollectionView struct {
	Collection models.Collection
	Games      []models.GameCollection
	Likes      int64
	IsOwner    bool
	IsLiked    bool
}

// CollectionsPage holds the viewer's own collections and the public ones
// owned by others.
type CollectionsPage struct {
	Mine    []CollectionStats
	Popular []CollectionStats
}

type HomePage struct {
	LatestGames        []models.Game
	PopularCollections []CollectionStats
	FavoriteGameIDs    map[uint]bool
}

type FavoritesPage struct {
	Games            []models.Game
	LikedCollections []CollectionStats
}

func withLiveLikes(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Collection{}).
		Select("collections.*, COUNT(collection_likes.user_id) AS likes").
		Joins("LEFT JOIN collection_likes ON collection_likes.collection_id = collections.id").
		Group("collections.id")
}

func titleContains(db *gorm.DB, query string) *gorm.DB {
	query = strings.TrimSpace(query)
	if query == "" {
		return db
	}
	return db.Where("LOWER(collections.title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(query))+"%")
}

func scanStats(query *gorm.DB) ([]CollectionStats, error) {
	stats := []CollectionStats{}
	if err := query.Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	return stats, nil
}

// recountCollections rewrites the owner's collections_count from the live count.
func recountCollections(tx *gorm.DB, userID uint) error {
	var n int64
	if err := tx.Model(&models.Collection{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to count collections: %w", err)
	}
	err := tx.Model(&models.UserProfile{}).Where("user_id = ?", userID).
		UpdateColumn("collections_count", n).Error
	if err != nil {
		return fmt.Errorf("failed to update collections count: %w", err)
	}
	return nil
}

// CreateCollection creates a collection owned by ownerID.
func (s *Service) CreateCollection(ctx context.Context, ownerID uint, input CollectionInput) (*models.Collection, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := s.check(input); err != nil {
		return nil, err
	}
	collection := models.Collection{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		IsPublic:    input.IsPublic == nil || *input.IsPublic,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(&collection).Error; err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return recountCollections(tx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// UpdateCollection changes the title, description and visibility of a
// collection owned by actorID. A nil IsPublic leaves the visibility unchanged.
// The result carries the live like count.
func (s *Service) UpdateCollection(ctx context.Context, actorID, collectionID uint, input CollectionInput) (*CollectionStats, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := s.check(input); err != nil {
		return nil, err
	}
	var updated CollectionStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collection, err := s.lockOwnedCollection(ctx, tx, actorID, collectionID)
		if err != nil {
			return err
		}
		collection.Title = input.Title
		collection.Description = input.Description
		if input.IsPublic != nil {
			collection.IsPublic = *input.IsPublic
		}
		if err := tx.Model(collection).Select("title", "description", "is_public").Updates(collection).Error; err != nil {
			return fmt.Errorf("failed to update collection: %w", err)
		}
		updated.Collection = *collection
		updated.Likes, err = countLikes(tx, collectionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCollection removes a collection owned by actorID with its memberships and likes.
func (s *Service) DeleteCollection(ctx context.Context, actorID, collectionID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOwnedCollection(ctx, tx, actorID, collectionID); err != nil {
			return err
		}
		for _, child := range []any{&models.GameCollection{}, &models.CollectionLike{}} {
			if err := tx.Where("collection_id = ?", collectionID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete collection children: %w", err)
			}
		}
		if err := tx.Delete(&models.Collection{}, collectionID).Error; err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
		return recountCollections(tx, actorID)
	})
}

// VisibleCollection loads a collection the viewer may see. Private collections
// are only visible to their owner. viewerID 0 is an anonymous viewer.
func (s *Service) VisibleCollection(ctx context.Context, collectionID, viewerID uint) (*models.Collection, error) {
	collection, err := s.loadCollection(ctx, s.db, collectionID)
	if err != nil {
		return nil, err
	}
	if !collection.IsPublic && (viewerID == 0 || collection.UserID != viewerID) {
		return nil, fmt.Errorf("collection %d is private: %w", collectionID, ErrPermissionDenied)
	}
	return collection, nil
}

// CollectionDetail returns a visible collection with its ordered games.
func (s *Service) CollectionDetail(ctx context.Context, collectionID, viewerID uint) (*CollectionView, error) {
	db := s.db.WithContext(ctx)
	collection, err := s.VisibleCollection(ctx, collectionID, viewerID)
	if err != nil {
		return nil, err
	}
	view := &CollectionView{Collection: *collection, IsOwner: viewerID != 0 && collection.UserID == viewerID}

	if view.Games, err = s.ListCollectionGames(ctx, collectionID); err != nil {
		return nil, err
	}
	if view.Likes, err = countLikes(db, collectionID); err != nil {
		return nil, err
	}
	if viewerID != 0 && !view.IsOwner {
		var liked int64
		if err := db.Model(&models.CollectionLike{}).
			Where("user_id = ? AND collection_id = ?", viewerID, collectionID).
			Count(&liked).Error; err != nil {
			return nil, fmt.Errorf("failed to check like: %w", err)
		}
		view.IsLiked = liked > 0
	}
	return view, nil
}

// PopularCollections returns public collections ordered by live like count.
func (s *Service) PopularCollections(ctx context.Context, limit int) ([]CollectionStats, error) {
	if limit <= 0 {
		limit = PopularCollectionsLimit
	}
	return scanStats(withLiveLikes(s.db.WithContext(ctx)).
		Where("collections.is_public = ?", true).
		Order("likes DESC, collections.created_at DESC, collections.id DESC").
		Limit(limit))
}

// ListCollections returns the viewer's collections and the public collections
// of other users, both optionally narrowed to titles containing query.
func (s *Service) ListCollections(ctx context.Context, viewerID uint, query string) (*CollectionsPage, error) {
	db := s.db.WithContext(ctx)
	page := &CollectionsPage{Mine: []CollectionStats{}}

	var err error
	if viewerID != 0 {
		page.Mine, err = scanStats(titleContains(withLiveLikes(db), query).
			Where("collections.user_id = ?", viewerID).
			Order("collections.created_at DESC, collections.id DESC"))
		if err != nil {
			return nil, err
		}
	}

	popular := titleContains(withLiveLikes(db), query).Where("collections.is_public = ?", true)
	if viewerID != 0 {
		popular = popular.Where("collections.user_id <> ?", viewerID)
	}
	page.Popular, err = scanStats(popular.Order("likes DESC, collections.created_at DESC, collections.id DESC"))
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Home returns the latest games, the most liked public collections and which
// of the latest games the viewer has favorited.
func (s *Service) Home(ctx context.Context, viewerID uint) (*HomePage, error) {
	games, err := s.LatestGames(ctx, LatestGamesLimit)
	if err != nil {
		return nil, err
	}
	popular, err := s.PopularCollections(ctx, PopularCollectionsLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	favorites, err := s.FavoriteGameIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	return &HomePage{LatestGames: games, PopularCollections: popular, FavoriteGameIDs: favorites}, nil
}

// Favorites returns the user's favorite games, most recent first, and the
// public collections of other users the user has liked.
func (s *Service) Favorites(ctx context.Context, userID uint) (*FavoritesPage, error) {
	db := s.db.WithContext(ctx)
	page := &FavoritesPage{Games: []models.Game{}, LikedCollections: []CollectionStats{}}

	err := db.Preload("Tags", preloadTags).
		Joins("JOIN favorites ON favorites.game_id = games.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.added_at DESC, games.id DESC").
		Find(&page.Games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite games: %w", err)
	}

	var likedIDs []uint
	err = db.Model(&models.CollectionLike{}).
		Joins("JOIN collections ON collections.id = collection_likes.collection_id").
		Where("collection_likes.user_id = ? AND collections.user_id <> ? AND collections.is_public = ?", userID, userID, true).
		Order("collection_likes.created_at DESC").
		Pluck("collection_likes.collection_id", &likedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load liked collections: %w", err)
	}
	if len(likedIDs) == 0 {
		return page, nil
	}

	stats, err := scanStats(withLiveLikes(db).Where("collections.id IN ?", likedIDs))
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]CollectionStats, len(stats))
	for _, c := range stats {
		byID[c.ID] = c
	}
	for _, id := range likedIDs {
		if c, ok := byID[id]; ok {
			page.LikedCollections = append(page.LikedCollections, c)
		}
	}
	return page, nil
}
