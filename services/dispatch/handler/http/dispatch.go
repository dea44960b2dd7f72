package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/angkut-id/dispatch/services/dispatch"
	"github.com/angkut-id/dispatch/services/dispatch/repository"
)

// DispatchHandler handles HTTP requests for driver offer responses
type DispatchHandler struct {
	dispatchUC dispatch.DispatchUC
}

// NewDispatchHandler creates a new dispatch HTTP handler
func NewDispatchHandler(dispatchUC dispatch.DispatchUC) *DispatchHandler {
	return &DispatchHandler{
		dispatchUC: dispatchUC,
	}
}

// OfferResponse is returned after a driver responds to an offer
type OfferResponse struct {
	BookingID string `json:"booking_id"`
	DriverID  string `json:"driver_id"`
	Accepted  bool   `json:"accepted"`
}

// AcceptOffer handles a driver accepting an outstanding offer. The
// driver identity comes from the authenticated token, never the body.
func (h *DispatchHandler) AcceptOffer(c echo.Context) error {
	return h.respondToOffer(c, true)
}

// RejectOffer handles a driver declining an outstanding offer
func (h *DispatchHandler) RejectOffer(c echo.Context) error {
	return h.respondToOffer(c, false)
}

func (h *DispatchHandler) respondToOffer(c echo.Context, accept bool) error {
	bookingID := c.Param("bookingID")
	if _, err := uuid.Parse(bookingID); err != nil {
		return BadRequestResponse(c, "invalid booking ID")
	}

	driverID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return BadRequestResponse(c, "missing driver identity")
	}

	ctx := c.Request().Context()
	var err error
	if accept {
		err = h.dispatchUC.OnDriverAccept(ctx, bookingID, driverID.String())
	} else {
		err = h.dispatchUC.OnDriverReject(ctx, bookingID, driverID.String())
	}

	if err != nil {
		switch err {
		case repository.ErrOfferNotFound:
			return ConflictResponse(c, "no outstanding offer for this driver")
		case repository.ErrBookingNotFound, repository.ErrDriverNotAvailable:
			return ConflictResponse(c, "offer is no longer in a respondable state")
		default:
			return InternalErrorResponse(c, "failed to process offer response")
		}
	}

	message := "offer rejected"
	if accept {
		message = "offer accepted"
	}
	return SuccessResponseWithData(c, http.StatusOK, message, OfferResponse{
		BookingID: bookingID,
		DriverID:  driverID.String(),
		Accepted:  accept,
	})
}
