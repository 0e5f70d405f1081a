package postgres

import (
	"context"
	"errors"

	"moviehub/movie"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MovieModel represents the database model for movies
type MovieModel struct {
	ID       int64  `gorm:"primaryKey"`
	Title    string `gorm:"not null"`
	Director string `gorm:"not null;default:''"`
	Year     int    `gorm:"not null"`
	Genre    string `gorm:"not null;default:'';index"`
	Rating   *float64
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// MovieRepository implements movie.Repository interface
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) CreateMovie(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	model := toModelMovie(m)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return movie.Movie{}, err
	}
	return toDomainMovie(model), nil
}

func (r *MovieRepository) GetMovie(ctx context.Context, id int64) (movie.Movie, error) {
	var model MovieModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Movie{}, movie.ErrMovieNotFound
		}
		return movie.Movie{}, err
	}

	return toDomainMovie(model), nil
}

// ListMovies returns movies ordered by id, restricted to an exact genre when
// genre is not empty.
func (r *MovieRepository) ListMovies(ctx context.Context, genre string) ([]movie.Movie, error) {
	q := r.db.WithContext(ctx).Order("id")
	if genre != "" {
		q = q.Where("genre = ?", genre)
	}

	var models []MovieModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

func (r *MovieRepository) MoviesByIDs(ctx context.Context, ids []int64) ([]movie.Movie, error) {
	if len(ids) == 0 {
		return []movie.Movie{}, nil
	}

	var models []MovieModel
	err := r.db.WithContext(ctx).
		Where("id = ANY(?)", pq.Int64Array(ids)).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

func (r *MovieRepository) UpdateMovie(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	model := toModelMovie(m)
	result := r.db.WithContext(ctx).Model(&MovieModel{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"title":    model.Title,
		"director": model.Director,
		"year":     model.Year,
		"genre":    model.Genre,
		"rating":   model.Rating,
	})
	if result.Error != nil {
		return movie.Movie{}, result.Error
	}
	if result.RowsAffected == 0 {
		return movie.Movie{}, movie.ErrMovieNotFound
	}
	return toDomainMovie(model), nil
}

func (r *MovieRepository) DeleteMovie(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return movie.ErrMovieNotFound
	}
	return nil
}

// UpsertMovies inserts movies keeping their ids, overwriting rows that
// already exist, and moves the id sequence past the highest imported id.
func (r *MovieRepository) UpsertMovies(ctx context.Context, movies []movie.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	models := make([]MovieModel, len(movies))
	for i, m := range movies {
		models[i] = toModelMovie(m)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "director", "year", "genre", "rating"}),
		}).CreateInBatches(&models, 500).Error
		if err != nil {
			return err
		}
		return tx.Exec("SELECT setval(pg_get_serial_sequence('movies', 'id'), (SELECT COALESCE(MAX(id), 1) FROM movies))").Error
	})
}

func toDomainMovie(model MovieModel) movie.Movie {
	return movie.Movie{
		ID:       model.ID,
		Title:    model.Title,
		Director: model.Director,
		Year:     model.Year,
		Genre:    model.Genre,
		Rating:   model.Rating,
	}
}

func toDomainMovies(models []MovieModel) []movie.Movie {
	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = toDomainMovie(model)
	}
	return movies
}

func toModelMovie(m movie.Movie) MovieModel {
	return MovieModel{
		ID:       m.ID,
		Title:    m.Title,
		Director: m.Director,
		Year:     m.Year,
		Genre:    m.Genre,
		Rating:   m.Rating,
	}
}
