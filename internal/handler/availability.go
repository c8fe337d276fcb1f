package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// AvailabilityHandler exposes room inventory: owners open dates for
// sale, guests browse per-night price and free units.  Unit counts are
// never mutated here; only the reservation workflow touches them.
type AvailabilityHandler struct {
	Hotels       *repository.HotelRepo
	Rooms        *repository.RoomRepo
	Availability *repository.AvailabilityRepo
}

// NewAvailabilityHandler constructs an AvailabilityHandler and panics
// on nil deps.
func NewAvailabilityHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, availability *repository.AvailabilityRepo) *AvailabilityHandler {
	if hotels == nil || rooms == nil || availability == nil {
		panic("nil repository passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Hotels: hotels, Rooms: rooms, Availability: availability}
}

type createAvailabilityReq struct {
	// Date opens a single night; From/To open the inclusive range
	// [from, to].  Exactly one of the two forms must be used.
	Date          string `json:"date"`
	From          string `json:"from"`
	To            string `json:"to"`
	PricePerNight string `json:"price_per_night"`
	TotalUnits    uint32 `json:"total_units"`
}

type availabilityResp struct {
	ID             uint64 `json:"id"`
	RoomID         uint64 `json:"room_id"`
	Date           string `json:"date"`
	PricePerNight  string `json:"price_per_night"`
	AvailableUnits uint32 `json:"available_units"`
	TotalUnits     uint32 `json:"total_units"`
	Status         string `json:"status"`
}

func toAvailabilityResp(a *model.RoomAvailability) availabilityResp {
	return availabilityResp{
		ID:             a.ID,
		RoomID:         a.RoomID,
		Date:           a.Date.Format(dateLayout),
		PricePerNight:  a.PricePerNight.StringFixed(2),
		AvailableUnits: a.AvailableUnits,
		TotalUnits:     a.TotalUnits,
		Status:         string(a.Status),
	}
}

// ownRoom resolves a room and checks the caller owns its hotel.
func (h *AvailabilityHandler) ownRoom(c echo.Context, roomID, ownerID uint64) (*model.Room, error) {
	room, err := h.Rooms.GetByID(c.Request().Context(), roomID)
	if err != nil {
		return nil, err
	}
	hotel, err := h.Hotels.GetByID(c.Request().Context(), room.HotelID)
	if err != nil {
		return nil, err
	}
	if hotel.OwnerID != ownerID {
		return nil, repository.ErrForbidden
	}
	return room, nil
}

// CreateAvailability handles POST /v1/owner/rooms/:id/availability.  A
// single date opens one night; from/to opens every night of the
// inclusive range, skipping dates already open.  Existing rows are
// never overwritten.
func (h *AvailabilityHandler) CreateAvailability(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req createAvailabilityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	price, err := decimal.NewFromString(req.PricePerNight)
	if err != nil || price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price_per_night"})
	}
	if req.TotalUnits < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_units must be at least 1"})
	}

	room, err := h.ownRoom(c, roomID, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	if req.TotalUnits > room.TotalUnits {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_units exceeds the room's unit count"})
	}

	ctx := c.Request().Context()
	switch {
	case req.Date != "":
		date, err := parseDate(req.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
		}
		if err := h.Availability.Create(ctx, roomID, date, price.Round(2), req.TotalUnits); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "date already open"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create availability failed"})
		}
		return c.JSON(http.StatusCreated, echo.Map{"created": 1})
	case req.From != "" && req.To != "":
		from, err := parseDate(req.From)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		to, err := parseDate(req.To)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		if to.Before(from) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must not be before from"})
		}
		created, err := h.Availability.CreateBulk(ctx, roomID, from, to, price.Round(2), req.TotalUnits)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create availability failed"})
		}
		return c.JSON(http.StatusCreated, echo.Map{"created": created})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "either date or from/to is required"})
}

// ListAvailability handles GET /v1/rooms/:id/availability?from=&to=, a
// public browse endpoint over the half-open range [from, to).
func (h *AvailabilityHandler) ListAvailability(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}

	ctx := c.Request().Context()
	if _, err := h.Rooms.GetByID(ctx, roomID); err != nil {
		return respondError(c, err)
	}
	rows, err := h.Availability.ListRange(ctx, roomID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]availabilityResp, 0, len(rows))
	for i := range rows {
		out = append(out, toAvailabilityResp(&rows[i]))
	}
	return c.JSON(http.StatusOK, out)
}
