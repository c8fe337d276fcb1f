// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Hotel        *handler.HotelHandler
	Availability *handler.AvailabilityHandler
	Booking      *handler.BookingHandler
	Wallet       *handler.WalletHandler
}

// Register registers all routes on the provided Echo instance.  Public
// browse endpoints carry no auth; everything else requires a valid
// access token, with role middleware narrowing the owner and admin
// groups.  rateLimit applies to the authenticated surface.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated auth operations.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	// Public browse endpoints for guests comparing hotels.
	e.GET("/v1/hotels/:id", h.Hotel.GetHotel)
	e.GET("/v1/hotels/:id/rooms", h.Hotel.ListRooms)
	e.GET("/v1/rooms/:id/availability", h.Availability.ListAvailability)

	// Authenticated surface.  Any known role passes; per-group role
	// middleware narrows further below.
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RequireRole(model.RoleCustomer, model.RoleOwner, model.RoleAdmin))
	if rateLimit != nil {
		api.Use(rateLimit)
	}

	api.GET("/me", h.Auth.Me)

	// Reservations.
	api.POST("/bookings", h.Booking.Create)
	api.GET("/bookings", h.Booking.ListMine)
	api.GET("/bookings/:id", h.Booking.Get)
	api.POST("/bookings/:id/cancel", h.Booking.Cancel)

	// Wallet.
	api.GET("/wallet/balance", h.Wallet.GetBalance)
	api.GET("/wallet/transactions", h.Wallet.ListTransactions)
	api.POST("/wallet/topups", h.Wallet.CreateTopup)

	// Owner surface: hotel and inventory management plus booking
	// confirmation.
	owner := api.Group("/owner", middleware.RequireRole(model.RoleOwner, model.RoleAdmin))
	owner.POST("/hotels", h.Hotel.CreateHotel)
	owner.GET("/hotels", h.Hotel.ListMyHotels)
	owner.POST("/hotels/:id/rooms", h.Hotel.CreateRoom)
	owner.GET("/hotels/:id/bookings", h.Booking.ListForHotel)
	owner.POST("/rooms/:id/availability", h.Availability.CreateAvailability)

	// Confirm sits outside /owner so admins keep the same path; the
	// service checks hotel ownership itself.
	api.POST("/bookings/:id/confirm", h.Booking.Confirm)

	// Admin surface: topup resolution, corrections and reconciliation.
	admin := api.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.POST("/topups/:id", h.Wallet.ProcessTopup)
	admin.POST("/adjustments", h.Wallet.CreateAdjustment)
	admin.POST("/wallets/:id/recalculate", h.Wallet.Recalculate)
	admin.GET("/wallets/audit", h.Wallet.Audit)
}
