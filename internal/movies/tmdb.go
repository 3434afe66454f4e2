package movies

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MetadataClient is the slice of the movie metadata API this service uses.
type MetadataClient interface {
	NowPlaying(ctx context.Context) ([]NowPlayingMovie, error)
	MovieDetails(ctx context.Context, movieID string) (*MovieDetails, error)
	MovieCredits(ctx context.Context, movieID string) ([]CastMember, error)
}

// NowPlayingMovie is a listing entry from the now-playing endpoint.
type NowPlayingMovie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
}

// MovieDetails is the detail payload for a single movie.
type MovieDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	Genres           []Genre `json:"genres"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	Tagline          string  `json:"tagline"`
	VoteAverage      float64 `json:"vote_average"`
	Runtime          int     `json:"runtime"`
}

// TMDBClient talks to The Movie Database v3 API with bearer-token auth.
type TMDBClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewTMDBClient(baseURL, apiKey string, timeout time.Duration) *TMDBClient {
	return &TMDBClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *TMDBClient) NowPlaying(ctx context.Context) ([]NowPlayingMovie, error) {
	var result struct {
		Results []NowPlayingMovie `json:"results"`
	}
	if err := t.get(ctx, "/movie/now_playing", &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (t *TMDBClient) MovieDetails(ctx context.Context, movieID string) (*MovieDetails, error) {
	var details MovieDetails
	if err := t.get(ctx, "/movie/"+movieID, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

func (t *TMDBClient) MovieCredits(ctx context.Context, movieID string) ([]CastMember, error) {
	var result struct {
		Cast []CastMember `json:"cast"`
	}
	if err := t.get(ctx, "/movie/"+movieID+"/credits", &result); err != nil {
		return nil, err
	}
	return result.Cast, nil
}

func (t *TMDBClient) get(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build metadata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("metadata API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata API returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode metadata response: %w", err)
	}
	return nil
}
