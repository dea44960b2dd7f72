package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angkut-id/dispatch/internal/pkg/models"
	"github.com/angkut-id/dispatch/services/dispatch/repository"
)

// fakeDispatchUC records driver responses for handler tests.
type fakeDispatchUC struct {
	acceptErr error
	rejectErr error
	accepted  [][2]string
	rejected  [][2]string
}

func (f *fakeDispatchUC) OnBookingCreated(ctx context.Context, event models.BookingEvent) error {
	return nil
}

func (f *fakeDispatchUC) OnBookingCancelled(ctx context.Context, event models.BookingEvent) error {
	return nil
}

func (f *fakeDispatchUC) HandleDriverBeacon(ctx context.Context, event models.BeaconEvent) error {
	return nil
}

func (f *fakeDispatchUC) OnDriverAccept(ctx context.Context, bookingID, driverID string) error {
	if f.acceptErr != nil {
		return f.acceptErr
	}
	f.accepted = append(f.accepted, [2]string{bookingID, driverID})
	return nil
}

func (f *fakeDispatchUC) OnDriverReject(ctx context.Context, bookingID, driverID string) error {
	if f.rejectErr != nil {
		return f.rejectErr
	}
	f.rejected = append(f.rejected, [2]string{bookingID, driverID})
	return nil
}

func (f *fakeDispatchUC) HandleJob(ctx context.Context, payload models.JobPayload) error {
	return nil
}

func newOfferContext(t *testing.T, bookingID string, driverID interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("bookingID")
	c.SetParamValues(bookingID)
	if driverID != nil {
		c.Set("user_id", driverID)
	}
	return c, rec
}

func TestAcceptOffer_Success(t *testing.T) {
	uc := &fakeDispatchUC{}
	h := NewDispatchHandler(uc)

	bookingID := uuid.New().String()
	driverID := uuid.New()
	c, rec := newOfferContext(t, bookingID, driverID)

	err := h.AcceptOffer(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [][2]string{{bookingID, driverID.String()}}, uc.accepted)

	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestRejectOffer_Success(t *testing.T) {
	uc := &fakeDispatchUC{}
	h := NewDispatchHandler(uc)

	bookingID := uuid.New().String()
	driverID := uuid.New()
	c, rec := newOfferContext(t, bookingID, driverID)

	err := h.RejectOffer(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [][2]string{{bookingID, driverID.String()}}, uc.rejected)
}

func TestAcceptOffer_InvalidBookingID(t *testing.T) {
	h := NewDispatchHandler(&fakeDispatchUC{})

	c, rec := newOfferContext(t, "not-a-uuid", uuid.New())

	err := h.AcceptOffer(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptOffer_MissingDriverIdentity(t *testing.T) {
	h := NewDispatchHandler(&fakeDispatchUC{})

	c, rec := newOfferContext(t, uuid.New().String(), nil)

	err := h.AcceptOffer(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptOffer_NoOutstandingOffer(t *testing.T) {
	uc := &fakeDispatchUC{acceptErr: repository.ErrOfferNotFound}
	h := NewDispatchHandler(uc)

	c, rec := newOfferContext(t, uuid.New().String(), uuid.New())

	err := h.AcceptOffer(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRejectOffer_StateRace(t *testing.T) {
	uc := &fakeDispatchUC{rejectErr: repository.ErrDriverNotAvailable}
	h := NewDispatchHandler(uc)

	c, rec := newOfferContext(t, uuid.New().String(), uuid.New())

	err := h.RejectOffer(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
