package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickshow/internal/movies"
	"quickshow/internal/shared/constants"
	"quickshow/pkg/cache"
)

// Service interface defines the contract for show scheduling and browsing
type Service interface {
	// AddShows creates one show per requested date-time, lazily caching the
	// movie's metadata on first reference.
	AddShows(ctx context.Context, req AddShowsRequest) error

	// ListShowingMovies returns the movies that have at least one upcoming
	// show, ordered by earliest screening.
	ListShowingMovies(ctx context.Context) ([]movies.Movie, error)

	// GetMovieShowtimes returns a movie together with its upcoming
	// screenings grouped by date.
	GetMovieShowtimes(ctx context.Context, movieID string) (*MovieShowtimes, error)
}

type service struct {
	repo         Repository
	movieService movies.Service
	cache        cache.Service
}

func NewService(repo Repository, movieService movies.Service, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		movieService: movieService,
		cache:        cacheService,
	}
}

func (s *service) AddShows(ctx context.Context, req AddShowsRequest) error {
	// Lazy movie creation: first show referencing an unseen movie id pulls
	// the metadata copy in.
	movie, err := s.movieService.EnsureMovie(ctx, req.MovieID)
	if err != nil {
		return err
	}

	var batch []Show
	for _, input := range req.ShowsInput {
		for _, t := range input.Times {
			dateTime, err := time.Parse("2006-01-02T15:04", input.Date+"T"+t)
			if err != nil {
				return fmt.Errorf("invalid show date-time %s %s: %w", input.Date, t, err)
			}
			batch = append(batch, Show{
				MovieID:       movie.ID,
				ShowDateTime:  dateTime,
				ShowPrice:     req.ShowPrice,
				OccupiedSeats: SeatMap{},
			})
		}
	}

	if len(batch) == 0 {
		return errors.New("no shows to create")
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to create shows: %w", err)
	}

	_ = s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_SHOWS)

	return nil
}

func (s *service) ListShowingMovies(ctx context.Context) ([]movies.Movie, error) {
	var result []movies.Movie
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SHOWS_UPCOMING, constants.TTL_SHOWS_UPCOMING,
		func() (interface{}, error) {
			upcoming, err := s.repo.ListUpcoming(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list upcoming shows: %w", err)
			}

			// Dedupe to unique movies, keeping earliest-screening order.
			seen := make(map[string]bool)
			unique := make([]movies.Movie, 0, len(upcoming))
			for _, show := range upcoming {
				if show.Movie == nil || seen[show.MovieID] {
					continue
				}
				seen[show.MovieID] = true
				unique = append(unique, *show.Movie)
			}
			return unique, nil
		}, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetMovieShowtimes(ctx context.Context, movieID string) (*MovieShowtimes, error) {
	var showtimes MovieShowtimes
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_SHOWS_FOR_MOVIE+movieID, constants.TTL_SHOWS_FOR_MOVIE,
		func() (interface{}, error) {
			movie, err := s.movieService.GetMovie(ctx, movieID)
			if err != nil {
				return nil, err
			}

			upcoming, err := s.repo.ListUpcomingByMovie(ctx, movieID)
			if err != nil {
				return nil, fmt.Errorf("failed to list shows for movie %s: %w", movieID, err)
			}

			dateTime := make(map[string][]ShowTimeEntry)
			for _, show := range upcoming {
				date := show.ShowDateTime.UTC().Format("2006-01-02")
				dateTime[date] = append(dateTime[date], ShowTimeEntry{
					Time:   show.ShowDateTime,
					ShowID: show.ID,
				})
			}

			return &MovieShowtimes{Movie: movie, DateTime: dateTime}, nil
		}, &showtimes)
	if err != nil {
		return nil, err
	}
	return &showtimes, nil
}
