package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// BookingService runs the reservation workflow.  Each operation is a
// single database transaction: availability locking, pricing, the
// booking row, the inventory decrement and the wallet movement either
// all commit or all roll back.  Notifications go out only after the
// commit.
type BookingService struct {
	db           *sql.DB
	hotels       *repository.HotelRepo
	rooms        *repository.RoomRepo
	availability *repository.AvailabilityRepo
	bookings     *repository.BookingRepo
	wallet       *WalletService
	notifier     Notifier
}

// NewBookingService wires the reservation workflow.
func NewBookingService(
	db *sql.DB,
	hotels *repository.HotelRepo,
	rooms *repository.RoomRepo,
	availability *repository.AvailabilityRepo,
	bookings *repository.BookingRepo,
	wallet *WalletService,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		db:           db,
		hotels:       hotels,
		rooms:        rooms,
		availability: availability,
		bookings:     bookings,
		wallet:       wallet,
		notifier:     notifier,
	}
}

// Create reserves a stay and charges the customer's wallet, all in one
// transaction.  The sequence inside the transaction is fixed: lock the
// availability rows of the range, verify every night is satisfiable,
// price the stay, insert the booking, decrement inventory, debit the
// wallet.  Any failure rolls back all of it, so an insufficient
// balance can never leave units reserved.  The booking starts as
// PENDING with payment PAID; hotel owner confirmation follows.
func (s *BookingService) Create(ctx context.Context, userID uint64, req StayRequest) (*model.Booking, error) {
	hotel, err := s.hotels.GetByID(ctx, req.HotelID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	req.CheckIn = DateOnly(req.CheckIn)
	req.CheckOut = DateOnly(req.CheckOut)
	if err := ValidateStay(req, room, hotel, Today()); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		HotelID:        req.HotelID,
		RoomID:         req.RoomID,
		UserID:         userID,
		CheckInDate:    req.CheckIn,
		CheckOutDate:   req.CheckOut,
		NumberOfGuests: req.NumberOfGuests,
		UnitsRequested: req.UnitsRequested,
		Status:         model.BookingPending,
		PaymentStatus:  model.PaymentPaid,
	}
	var newBalance decimal.Decimal
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		rows, err := s.availability.LockStayTx(ctx, tx, req.RoomID, req.CheckIn, req.CheckOut)
		if err != nil {
			return err
		}
		total, err := PlanStay(rows, req.RoomID, req.CheckIn, req.CheckOut, req.UnitsRequested)
		if err != nil {
			return err
		}
		booking.TotalPrice = total.Round(2)
		booking.PaidAmount = AddServiceFee(total)
		if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
			return err
		}
		if err := s.availability.DecrementUnitsTx(ctx, tx, req.RoomID, req.CheckIn, req.CheckOut, req.UnitsRequested); err != nil {
			return err
		}
		newBalance, err = s.wallet.debitTx(ctx, tx, userID, booking.PaidAmount,
			model.TxBookingPayment, fmt.Sprint(booking.ID), model.RefBooking)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.wallet.afterBalanceChange(ctx, userID, newBalance)
	s.notifier.Notify(ctx, queue.Notification{
		EventID: uuid.NewString(),
		UserID:  userID,
		Type:    queue.TypeBookingCreated,
		Title:   "Booking received",
		Message: fmt.Sprintf("Your booking at %s from %s to %s is awaiting confirmation.",
			hotel.Name, req.CheckIn.Format("2006-01-02"), req.CheckOut.Format("2006-01-02")),
		Metadata:  bookingMetadata(booking),
		CreatedAt: queue.Now(),
	})
	s.notifier.Notify(ctx, queue.Notification{
		EventID: uuid.NewString(),
		UserID:  hotel.OwnerID,
		Type:    queue.TypeBookingCreated,
		Title:   "New booking",
		Message: fmt.Sprintf("A new booking was placed at %s for %d unit(s), %s to %s.",
			hotel.Name, req.UnitsRequested, req.CheckIn.Format("2006-01-02"), req.CheckOut.Format("2006-01-02")),
		Metadata:  bookingMetadata(booking),
		CreatedAt: queue.Now(),
	})
	return booking, nil
}

// Confirm moves a pending booking to CONFIRMED.  Only the owner of the
// booked hotel (or an admin) may confirm, and only from PENDING; a
// booking in any other state fails with ErrInvalidStateTransition.
func (s *BookingService) Confirm(ctx context.Context, actorID uint64, actorRole string, bookingID uint64) (*model.Booking, error) {
	var booking *model.Booking
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		booking, err = s.bookings.GetForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := s.authorizeHotelActor(ctx, booking.HotelID, actorID, actorRole); err != nil {
			return err
		}
		if !booking.Status.CanTransition(model.BookingConfirmed) {
			return ErrInvalidStateTransition
		}
		now := time.Now()
		if err := s.bookings.MarkConfirmedTx(ctx, tx, bookingID, now); err != nil {
			return err
		}
		booking.Status = model.BookingConfirmed
		booking.ConfirmedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, queue.Notification{
		EventID: uuid.NewString(),
		UserID:  booking.UserID,
		Type:    queue.TypeBookingConfirmed,
		Title:   "Booking confirmed",
		Message: fmt.Sprintf("Your booking #%d for %s has been confirmed.",
			booking.ID, booking.CheckInDate.Format("2006-01-02")),
		Metadata:  bookingMetadata(booking),
		CreatedAt: queue.Now(),
	})
	return booking, nil
}

// Cancel cancels a booking, refunds the wallet per the time-based
// policy and returns the reserved units to inventory, all in one
// transaction.  The booking may be cancelled by the customer who made
// it, the owner of the hotel, or an admin.  Cancelling twice fails
// with ErrAlreadyCancelled; cancelling a booking past the cancellable
// states fails with ErrInvalidStateTransition.  Both leave the first
// cancellation's refund and restore untouched.
func (s *BookingService) Cancel(ctx context.Context, actorID uint64, actorRole string, bookingID uint64, reason string) (*model.Booking, *RefundQuote, error) {
	var booking *model.Booking
	var quote RefundQuote
	var newBalance decimal.Decimal
	refunded := false
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		booking, err = s.bookings.GetForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if err := s.authorizeCancel(ctx, booking, actorID, actorRole); err != nil {
			return err
		}
		if booking.Status == model.BookingCancelled {
			return ErrAlreadyCancelled
		}
		if !booking.Status.Cancellable() {
			return ErrInvalidStateTransition
		}

		now := time.Now()
		quote = QuoteRefund(booking.PaidAmount, booking.CheckInDate, now)
		if quote.Amount.IsPositive() {
			newBalance, err = s.wallet.creditTx(ctx, tx, booking.UserID, quote.Amount,
				model.TxRefund, fmt.Sprint(booking.ID), model.RefBooking)
			if err != nil {
				return err
			}
			refunded = true
		}
		if err := s.availability.RestoreUnitsTx(ctx, tx, booking.RoomID,
			booking.CheckInDate, booking.CheckOutDate, booking.UnitsRequested); err != nil {
			return err
		}
		if err := s.bookings.MarkCancelledTx(ctx, tx, bookingID, quote.PaymentStatus, reason, now); err != nil {
			return err
		}
		booking.Status = model.BookingCancelled
		booking.PaymentStatus = quote.PaymentStatus
		booking.CancellationReason = &reason
		booking.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if refunded {
		s.wallet.afterBalanceChange(ctx, booking.UserID, newBalance)
	}
	s.notifier.Notify(ctx, queue.Notification{
		EventID: uuid.NewString(),
		UserID:  booking.UserID,
		Type:    queue.TypeBookingCancelled,
		Title:   "Booking cancelled",
		Message: fmt.Sprintf("Booking #%d was cancelled. Refund: %s.",
			booking.ID, quote.Amount.StringFixed(2)),
		Metadata:  bookingMetadata(booking),
		CreatedAt: queue.Now(),
	})
	return booking, &quote, nil
}

// Get returns a booking scoped to the caller: customers see their own
// bookings, owners those of their hotels, admins everything.
func (s *BookingService) Get(ctx context.Context, actorID uint64, actorRole string, bookingID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeCancel(ctx, booking, actorID, actorRole); err != nil {
		return nil, err
	}
	return booking, nil
}

// ListForUser returns the caller's bookings, newest first.
func (s *BookingService) ListForUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ListForHotel returns a hotel's bookings for its owner.
func (s *BookingService) ListForHotel(ctx context.Context, ownerID uint64, hotelID uint64) ([]model.Booking, error) {
	return s.bookings.ListByHotelForOwner(ctx, hotelID, ownerID)
}

// authorizeHotelActor permits the hotel's owner and admins.
func (s *BookingService) authorizeHotelActor(ctx context.Context, hotelID, actorID uint64, actorRole string) error {
	if actorRole == model.RoleAdmin {
		return nil
	}
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		return err
	}
	if hotel.OwnerID != actorID {
		return repository.ErrForbidden
	}
	return nil
}

// authorizeCancel permits the booking's customer, the hotel's owner
// and admins.
func (s *BookingService) authorizeCancel(ctx context.Context, booking *model.Booking, actorID uint64, actorRole string) error {
	if actorRole == model.RoleAdmin || booking.UserID == actorID {
		return nil
	}
	return s.authorizeHotelActor(ctx, booking.HotelID, actorID, actorRole)
}

func bookingMetadata(b *model.Booking) map[string]string {
	return map[string]string{
		"booking_id": fmt.Sprint(b.ID),
		"hotel_id":   fmt.Sprint(b.HotelID),
		"room_id":    fmt.Sprint(b.RoomID),
		"check_in":   b.CheckInDate.Format("2006-01-02"),
		"check_out":  b.CheckOutDate.Format("2006-01-02"),
		"status":     string(b.Status),
	}
}
