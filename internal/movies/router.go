package movies

import (
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMovieRoutes configures movie catalog routes.
func SetupMovieRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	moviesGroup := rg.Group("/movies")
	{
		// Public catalog reads
		moviesGroup.GET("", controller.ListMovies)
		moviesGroup.GET("/:id", controller.GetMovie)

		// Admin-only metadata API proxy, used when scheduling new shows
		moviesGroup.GET("/now-playing", middleware.Auth(cfg), middleware.RequireAdmin(), controller.NowPlaying)
	}
}
