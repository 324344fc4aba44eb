// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expedition/internal/http/handlers"
	"expedition/internal/http/middleware"
)

// Deps carries the handler collaborators. History is optional; without a
// database the listing route is simply not registered.
type Deps struct {
	Planner   handlers.Planner
	Rates     handlers.Converter
	Artifacts handlers.ArtifactTaker
	Geo       handlers.ReverseLookuper
	Images    handlers.Thumbnailer
	History   handlers.HistoryLister
	Log       *zap.Logger
}

func NewRouter(deps Deps) http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	itineraryHandler := handlers.NewItineraryHandler(deps.Planner, deps.Rates)
	r.POST("/api/itineraries", itineraryHandler.Create)

	downloadHandler := handlers.NewDownloadHandler(deps.Artifacts)
	r.GET("/api/download", downloadHandler.Get)

	locationHandler := handlers.NewLocationHandler(deps.Geo, deps.Images)
	r.GET("/api/location/reverse", locationHandler.Reverse)

	if deps.History != nil {
		historyHandler := handlers.NewHistoryHandler(deps.History)
		r.GET("/api/itineraries/history", historyHandler.List)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
