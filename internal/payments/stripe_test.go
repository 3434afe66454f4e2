package payments

import (
	"testing"

	"quickshow/internal/movies"
	"quickshow/internal/shows"
)

func TestCheckoutProductNameUsesMovieTitle(t *testing.T) {
	show := &shows.Show{
		Movie: &movies.Movie{ID: "324544", Title: "In the Lost Lands"},
	}
	if got := checkoutProductName(show); got != "In the Lost Lands Tickets" {
		t.Errorf("product name = %q", got)
	}
}

func TestCheckoutProductNameFallsBackWithoutMovie(t *testing.T) {
	if got := checkoutProductName(&shows.Show{}); got != "Movie tickets" {
		t.Errorf("product name = %q", got)
	}
}
