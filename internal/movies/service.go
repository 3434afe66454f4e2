package movies

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"quickshow/internal/shared/constants"
	"quickshow/pkg/cache"

	"gorm.io/gorm"
)

// ErrMovieNotFound is returned when a movie id resolves to nothing locally.
var ErrMovieNotFound = errors.New("movie not found")

// Service interface defines the contract for movie catalog logic
type Service interface {
	// NowPlaying proxies the metadata API's now-playing listing.
	NowPlaying(ctx context.Context) ([]NowPlayingMovie, error)

	// EnsureMovie returns the cached copy for the given metadata-API id,
	// fetching details and credits on first reference.
	EnsureMovie(ctx context.Context, movieID string) (*Movie, error)

	GetMovie(ctx context.Context, movieID string) (*Movie, error)
	ListMovies(ctx context.Context) ([]Movie, error)
}

type service struct {
	repo     Repository
	metadata MetadataClient
	cache    cache.Service
}

func NewService(repo Repository, metadata MetadataClient, cacheService cache.Service) Service {
	return &service{
		repo:     repo,
		metadata: metadata,
		cache:    cacheService,
	}
}

func (s *service) NowPlaying(ctx context.Context) ([]NowPlayingMovie, error) {
	var listing []NowPlayingMovie
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MOVIES_NOW_PLAYING, constants.TTL_MOVIES_NOW_PLAYING,
		func() (interface{}, error) {
			return s.metadata.NowPlaying(ctx)
		}, &listing)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch now-playing movies: %w", err)
	}
	return listing, nil
}

func (s *service) EnsureMovie(ctx context.Context, movieID string) (*Movie, error) {
	movie, err := s.repo.GetByID(ctx, movieID)
	if err == nil {
		return movie, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up movie %s: %w", movieID, err)
	}

	// First show referencing this id: pull details and credits and persist
	// the local copy.
	details, err := s.metadata.MovieDetails(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie details: %w", err)
	}
	casts, err := s.metadata.MovieCredits(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie credits: %w", err)
	}

	movie = &Movie{
		ID:               strconv.Itoa(details.ID),
		Title:            details.Title,
		Overview:         details.Overview,
		PosterPath:       details.PosterPath,
		BackdropPath:     details.BackdropPath,
		Genres:           details.Genres,
		Casts:            casts,
		ReleaseDate:      details.ReleaseDate,
		OriginalLanguage: details.OriginalLanguage,
		Tagline:          details.Tagline,
		VoteAverage:      details.VoteAverage,
		Runtime:          details.Runtime,
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to persist movie %s: %w", movieID, err)
	}

	_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_MOVIES)

	return movie, nil
}

func (s *service) GetMovie(ctx context.Context, movieID string) (*Movie, error) {
	var movie Movie
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MOVIE_DETAIL+movieID, constants.TTL_MOVIE_DETAIL,
		func() (interface{}, error) {
			m, err := s.repo.GetByID(ctx, movieID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMovieNotFound
			}
			return m, err
		}, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (s *service) ListMovies(ctx context.Context) ([]Movie, error) {
	var result []Movie
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_MOVIES_LIST, constants.TTL_MOVIES_LIST,
		func() (interface{}, error) {
			return s.repo.List(ctx)
		}, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return result, nil
}
