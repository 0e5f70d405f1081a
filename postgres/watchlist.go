package postgres

import (
	"context"
	"errors"
	"time"

	"moviehub/watchlist"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistEntryModel represents one (user, movie) association. Uniqueness
// of the pair is enforced by the database.
type WatchlistEntryModel struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"not null;index;uniqueIndex:unique_user_movie"`
	MovieID   int64     `gorm:"not null;index;uniqueIndex:unique_user_movie"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

// TableName specifies the table name for GORM
func (WatchlistEntryModel) TableName() string {
	return "watchlist"
}

// WatchlistRepository implements watchlist.Repository interface
type WatchlistRepository struct {
	db *gorm.DB
}

// NewWatchlistRepository creates a new watchlist repository
func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

func (r *WatchlistRepository) CreateEntry(ctx context.Context, userID, movieID int64) (watchlist.Entry, error) {
	model := WatchlistEntryModel{UserID: userID, MovieID: movieID}
	err := r.db.WithContext(ctx).Omit("created_at").Clauses(clause.Returning{}).Create(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return watchlist.Entry{}, watchlist.ErrAlreadyInWatchlist
		}
		return watchlist.Entry{}, err
	}
	return toDomainEntry(model), nil
}

func (r *WatchlistRepository) EntriesByUser(ctx context.Context, userID int64) ([]watchlist.Entry, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *WatchlistRepository) EntriesByMovie(ctx context.Context, movieID int64) ([]watchlist.Entry, error) {
	return r.find(ctx, "movie_id = ?", movieID)
}

func (r *WatchlistRepository) EntryByPair(ctx context.Context, userID, movieID int64) (watchlist.Entry, error) {
	var model WatchlistEntryModel

	err := r.db.WithContext(ctx).Where("user_id = ? AND movie_id = ?", userID, movieID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return watchlist.Entry{}, watchlist.ErrEntryNotFound
		}
		return watchlist.Entry{}, err
	}

	return toDomainEntry(model), nil
}

func (r *WatchlistRepository) DeleteEntry(ctx context.Context, id int64) (watchlist.Entry, error) {
	return r.delete(ctx, "id = ?", id)
}

func (r *WatchlistRepository) DeleteByPair(ctx context.Context, userID, movieID int64) (watchlist.Entry, error) {
	return r.delete(ctx, "user_id = ? AND movie_id = ?", userID, movieID)
}

func (r *WatchlistRepository) find(ctx context.Context, query string, args ...interface{}) ([]watchlist.Entry, error) {
	var models []WatchlistEntryModel
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]watchlist.Entry, len(models))
	for i, model := range models {
		entries[i] = toDomainEntry(model)
	}
	return entries, nil
}

// delete removes the matching row and returns it.
func (r *WatchlistRepository) delete(ctx context.Context, query string, args ...interface{}) (watchlist.Entry, error) {
	var models []WatchlistEntryModel
	result := r.db.WithContext(ctx).Clauses(clause.Returning{}).Where(query, args...).Delete(&models)
	if result.Error != nil {
		return watchlist.Entry{}, result.Error
	}
	if result.RowsAffected == 0 || len(models) == 0 {
		return watchlist.Entry{}, watchlist.ErrEntryNotFound
	}
	return toDomainEntry(models[0]), nil
}

func toDomainEntry(model WatchlistEntryModel) watchlist.Entry {
	return watchlist.Entry{
		ID:        model.ID,
		UserID:    model.UserID,
		MovieID:   model.MovieID,
		CreatedAt: model.CreatedAt.UTC(),
	}
}
