package shows

import (
	"quickshow/internal/shared/config"
	"quickshow/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupShowRoutes configures show scheduling and browsing routes.
func SetupShowRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	showsGroup := rg.Group("/shows")
	{
		// Public schedule reads
		showsGroup.GET("", controller.ListShowingMovies)
		showsGroup.GET("/movie/:movieId", controller.GetMovieShowtimes)

		// Admin scheduling
		showsGroup.POST("", middleware.Auth(cfg), middleware.RequireAdmin(), controller.AddShows)
	}
}
