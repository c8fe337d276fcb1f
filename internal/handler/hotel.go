package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// HotelHandler bundles repositories for owners to manage their hotels
// and rooms and for guests to browse them.  Methods assume JWT and
// role middleware already ran on protected routes.
type HotelHandler struct {
	Hotels *repository.HotelRepo
	Rooms  *repository.RoomRepo
}

// NewHotelHandler constructs a HotelHandler and panics on nil deps.
func NewHotelHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo) *HotelHandler {
	if hotels == nil || rooms == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: hotels, Rooms: rooms}
}

type createHotelReq struct {
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

type createRoomReq struct {
	Name         string `json:"name"`
	MaxOccupancy uint32 `json:"max_occupancy"`
	TotalUnits   uint32 `json:"total_units"`
}

type hotelResp struct {
	ID          uint64  `json:"id"`
	OwnerID     uint64  `json:"owner_id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Address     *string `json:"address,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
}

type roomResp struct {
	ID           uint64 `json:"id"`
	HotelID      uint64 `json:"hotel_id"`
	Name         string `json:"name"`
	MaxOccupancy uint32 `json:"max_occupancy"`
	TotalUnits   uint32 `json:"total_units"`
	IsActive     bool   `json:"is_active"`
}

func toHotelResp(h *model.Hotel) hotelResp {
	return hotelResp{
		ID:          h.ID,
		OwnerID:     h.OwnerID,
		Name:        h.Name,
		City:        h.City,
		Address:     h.Address,
		Description: h.Description,
		IsActive:    h.IsActive,
		CreatedAt:   h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toRoomResp(r *model.Room) roomResp {
	return roomResp{
		ID:           r.ID,
		HotelID:      r.HotelID,
		Name:         r.Name,
		MaxOccupancy: r.MaxOccupancy,
		TotalUnits:   r.TotalUnits,
		IsActive:     r.IsActive,
	}
}

// CreateHotel handles POST /v1/owner/hotels.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createHotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}

	hotel := &model.Hotel{
		OwnerID:     ownerID,
		Name:        req.Name,
		City:        req.City,
		Address:     req.Address,
		Description: req.Description,
		IsActive:    true,
	}
	if err := h.Hotels.Create(c.Request().Context(), hotel); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hotel name already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
	}
	return c.JSON(http.StatusCreated, toHotelResp(hotel))
}

// ListMyHotels handles GET /v1/owner/hotels.
func (h *HotelHandler) ListMyHotels(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotels, err := h.Hotels.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]hotelResp, 0, len(hotels))
	for i := range hotels {
		out = append(out, toHotelResp(&hotels[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetHotel handles GET /v1/hotels/:id, a public browse endpoint.
func (h *HotelHandler) GetHotel(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.Hotels.GetByID(c.Request().Context(), hotelID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toHotelResp(hotel))
}

// CreateRoom handles POST /v1/owner/hotels/:id/rooms.  Only the hotel's
// owner may add rooms.
func (h *HotelHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.MaxOccupancy < 1 || req.TotalUnits < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "max_occupancy and total_units must be at least 1"})
	}

	ctx := c.Request().Context()
	hotel, err := h.Hotels.GetByID(ctx, hotelID)
	if err != nil {
		return respondError(c, err)
	}
	if hotel.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	room := &model.Room{
		HotelID:      hotelID,
		Name:         req.Name,
		MaxOccupancy: req.MaxOccupancy,
		TotalUnits:   req.TotalUnits,
		IsActive:     true,
	}
	if err := h.Rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room name already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, toRoomResp(room))
}

// ListRooms handles GET /v1/hotels/:id/rooms, a public browse endpoint.
func (h *HotelHandler) ListRooms(c echo.Context) error {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Hotels.GetByID(ctx, hotelID); err != nil {
		return respondError(c, err)
	}
	rooms, err := h.Rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]roomResp, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResp(&rooms[i]))
	}
	return c.JSON(http.StatusOK, out)
}
