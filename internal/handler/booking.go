package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// BookingHandler exposes the reservation workflow over HTTP.  All the
// atomicity lives in the service layer; this handler binds requests
// and maps outcomes.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler and panics on nil deps.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	HotelID        uint64 `json:"hotel_id"`
	RoomID         uint64 `json:"room_id"`
	CheckInDate    string `json:"check_in_date"`
	CheckOutDate   string `json:"check_out_date"`
	NumberOfGuests uint32 `json:"number_of_guests"`
	UnitsRequested uint32 `json:"units_requested"`
}

type cancelBookingReq struct {
	Reason string `json:"reason"`
}

type bookingResp struct {
	ID                 uint64  `json:"id"`
	HotelID            uint64  `json:"hotel_id"`
	RoomID             uint64  `json:"room_id"`
	UserID             uint64  `json:"user_id"`
	CheckInDate        string  `json:"check_in_date"`
	CheckOutDate       string  `json:"check_out_date"`
	NumberOfGuests     uint32  `json:"number_of_guests"`
	UnitsRequested     uint32  `json:"units_requested"`
	TotalPrice         string  `json:"total_price"`
	PaidAmount         string  `json:"paid_amount"`
	Status             string  `json:"status"`
	PaymentStatus      string  `json:"payment_status"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	ConfirmedAt        *string `json:"confirmed_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	resp := bookingResp{
		ID:                 b.ID,
		HotelID:            b.HotelID,
		RoomID:             b.RoomID,
		UserID:             b.UserID,
		CheckInDate:        b.CheckInDate.Format(dateLayout),
		CheckOutDate:       b.CheckOutDate.Format(dateLayout),
		NumberOfGuests:     b.NumberOfGuests,
		UnitsRequested:     b.UnitsRequested,
		TotalPrice:         b.TotalPrice.StringFixed(2),
		PaidAmount:         b.PaidAmount.StringFixed(2),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if b.CancelledAt != nil {
		v := b.CancelledAt.UTC().Format(time.RFC3339)
		resp.CancelledAt = &v
	}
	if b.ConfirmedAt != nil {
		v := b.ConfirmedAt.UTC().Format(time.RFC3339)
		resp.ConfirmedAt = &v
	}
	return resp
}

// Create handles POST /v1/bookings.  Inventory reservation, the
// booking row and the wallet debit commit together or not at all.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.HotelID == 0 || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and room_id are required"})
	}
	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_date"})
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out_date"})
	}

	booking, err := h.Bookings.Create(c.Request().Context(), userID, service.StayRequest{
		HotelID:        req.HotelID,
		RoomID:         req.RoomID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		NumberOfGuests: req.NumberOfGuests,
		UnitsRequested: req.UnitsRequested,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(booking))
}

// Confirm handles POST /v1/bookings/:id/confirm (owner or admin).
func (h *BookingHandler) Confirm(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.Bookings.Confirm(c.Request().Context(), actorID, getRole(c), bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// Cancel handles POST /v1/bookings/:id/cancel.  The response carries
// the refunded amount alongside the cancelled booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req cancelBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	booking, quote, err := h.Bookings.Cancel(c.Request().Context(), actorID, getRole(c), bookingID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking":       toBookingResp(booking),
		"refund_amount": quote.Amount.StringFixed(2),
	})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.Bookings.Get(c.Request().Context(), actorID, getRole(c), bookingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(booking))
}

// ListMine handles GET /v1/bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Bookings.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// ListForHotel handles GET /v1/owner/hotels/:id/bookings.
func (h *BookingHandler) ListForHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	bookings, err := h.Bookings.ListForHotel(c.Request().Context(), ownerID, hotelID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]bookingResp, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResp(&bookings[i]))
	}
	return c.JSON(http.StatusOK, out)
}
