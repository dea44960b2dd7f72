package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/angkut-id/dispatch/internal/pkg/middleware"
	"github.com/angkut-id/dispatch/internal/pkg/models"
	natspkg "github.com/angkut-id/dispatch/internal/pkg/nats"
	"github.com/angkut-id/dispatch/services/dispatch"
	httpHandler "github.com/angkut-id/dispatch/services/dispatch/handler/http"
	natsHandler "github.com/angkut-id/dispatch/services/dispatch/handler/nats"
)

// Handler combines all handlers for the dispatch service
type Handler struct {
	cfg          *models.Config
	dispatchHTTP *httpHandler.DispatchHandler
	dispatchNATS *natsHandler.DispatchHandler
}

// NewHandler creates a new combined handler
func NewHandler(
	cfg *models.Config,
	dispatchUC dispatch.DispatchUC,
	natsClient *natspkg.Client,
) *Handler {
	return &Handler{
		cfg:          cfg,
		dispatchHTTP: httpHandler.NewDispatchHandler(dispatchUC),
		dispatchNATS: natsHandler.NewDispatchHandler(dispatchUC, natsClient),
	}
}

// RegisterRoutes registers all HTTP routes. Offer responses require a
// driver token.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	drivers := e.Group("/drivers",
		middleware.JWTAuthMiddleware(h.cfg.JWT),
		middleware.RequireRole("driver"),
	)
	drivers.POST("/offers/:bookingID/accept", h.dispatchHTTP.AcceptOffer)
	drivers.POST("/offers/:bookingID/reject", h.dispatchHTTP.RejectOffer)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.dispatchNATS.InitNATSConsumers()
}

// Close shuts down the NATS consumers
func (h *Handler) Close() {
	h.dispatchNATS.Close()
}
