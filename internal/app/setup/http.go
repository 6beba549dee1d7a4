package setup

import (
	"fmt"
	"net/http"

	"github.com/LavaJover/shvark-ftd-service/internal/delivery/http/handlers"
)

func InitializeHTTPServer(deps *Dependencies, ucs *UseCases) *http.Server {
	log := deps.Logger.With("component", "admin_http")
	router := handlers.NewRouter(
		handlers.NewShaveHandler(ucs.ShaveUsecase, deps.Location, log),
		handlers.NewTrackingCodeHandler(ucs.TrackingCodeUsecase, log),
		handlers.NewManagerHandler(ucs.ManagerUsecase, log),
		handlers.NewFtdAssignmentHandler(ucs.AttributionUsecase, deps.Location, log),
		handlers.RouterConfig{
			AllowedOrigins: deps.Config.HTTPServer.AllowedOrigins,
			RequestTimeout: deps.Config.HTTPServer.RequestTimeout,
		},
		log,
	)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%s", deps.Config.HTTPServer.Host, deps.Config.HTTPServer.Port),
		Handler: router,
	}
}
