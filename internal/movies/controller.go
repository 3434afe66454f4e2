package movies

import (
	"errors"
	"net/http"

	"quickshow/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// NowPlaying handles GET /api/v1/movies/now-playing
//
//	@Summary	List now-playing movies from the metadata API
//	@Tags		movies
//	@Produce	json
//	@Success	200	{object}	response.APIResponse
//	@Router		/movies/now-playing [get]
func (c *Controller) NowPlaying(ctx *gin.Context) {
	listing, err := c.service.NowPlaying(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusBadGateway, err.Error())
		return
	}
	response.OK(ctx, http.StatusOK, "", gin.H{"movies": listing})
}

// ListMovies handles GET /api/v1/movies
func (c *Controller) ListMovies(ctx *gin.Context) {
	result, err := c.service.ListMovies(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	response.OK(ctx, http.StatusOK, "", gin.H{"movies": result})
}

// GetMovie handles GET /api/v1/movies/:id
func (c *Controller) GetMovie(ctx *gin.Context) {
	movieID := ctx.Param("id")
	if movieID == "" {
		response.Error(ctx, http.StatusBadRequest, "invalid movie id")
		return
	}

	movie, err := c.service.GetMovie(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "movie not found")
			return
		}
		response.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	response.OK(ctx, http.StatusOK, "", gin.H{"movie": movie})
}
