package shows

import (
	"errors"
	"net/http"

	"quickshow/internal/movies"
	"quickshow/internal/shared/utils/response"
	"quickshow/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// AddShows godoc
// @Summary Schedule shows for a movie
// @Description Creates one show per requested date and time, pulling the movie metadata in if it is not stored yet
// @Tags shows
// @Accept json
// @Produce json
// @Param request body AddShowsRequest true "Shows to schedule"
// @Security BearerAuth
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /shows [post]
func (ctrl *Controller) AddShows(c *gin.Context) {
	var req AddShowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	if err := ctrl.service.AddShows(c.Request.Context(), req); err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			response.Error(c, http.StatusNotFound, "Movie not found")
			return
		}
		logger.GetDefault().WithError(err).Error("failed to add shows")
		response.Error(c, http.StatusInternalServerError, "Failed to add shows")
		return
	}

	response.OK(c, http.StatusCreated, "Shows added successfully", nil)
}

func (ctrl *Controller) ListShowingMovies(c *gin.Context) {
	result, err := ctrl.service.ListShowingMovies(c.Request.Context())
	if err != nil {
		logger.GetDefault().WithError(err).Error("failed to list showing movies")
		response.Error(c, http.StatusInternalServerError, "Failed to fetch shows")
		return
	}

	response.OK(c, http.StatusOK, "Shows fetched successfully", result)
}

func (ctrl *Controller) GetMovieShowtimes(c *gin.Context) {
	movieID := c.Param("movieId")

	showtimes, err := ctrl.service.GetMovieShowtimes(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			response.Error(c, http.StatusNotFound, "Movie not found")
			return
		}
		logger.GetDefault().WithError(err).Error("failed to fetch showtimes", "movie_id", movieID)
		response.Error(c, http.StatusInternalServerError, "Failed to fetch showtimes")
		return
	}

	response.OK(c, http.StatusOK, "Showtimes fetched successfully", showtimes)
}
