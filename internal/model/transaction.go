package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the kinds of wallet ledger entries.
type TransactionType string

const (
	// TxTopup credits the wallet through the admin-approved request
	// flow.  Topups are the only entries created in Pending state.
	TxTopup TransactionType = "TOPUP"
	// TxBookingPayment debits the wallet when a booking is created.
	TxBookingPayment TransactionType = "BOOKING_PAYMENT"
	// TxRefund credits the wallet when a booking is cancelled.
	TxRefund TransactionType = "REFUND"
	// TxAdminAdjustment corrects a balance manually.  Like all
	// corrections it is a new ledger entry, never an edit.
	TxAdminAdjustment TransactionType = "ADMIN_ADJUSTMENT"
)

// Valid reports whether t is one of the defined transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TxTopup, TxBookingPayment, TxRefund, TxAdminAdjustment:
		return true
	}
	return false
}

// TransactionStatus enumerates ledger entry states.  Entries are
// immutable once written except for the single allowed transition
// Pending → {Success, Failed} used by topup approval.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxSuccess   TransactionStatus = "SUCCESS"
	TxFailed    TransactionStatus = "FAILED"
	TxCancelled TransactionStatus = "CANCELLED"
)

// Reference types linking a ledger entry to the record it paid for.
const (
	RefBooking = "BOOKING"
	RefTopup   = "TOPUP"
)

// Transaction is one entry of the append-only wallet ledger.  The
// ledger is the source of truth for balances: the per-user snapshot
// row is a cache reconciled against Σ(amount) over Success entries.
//
// Amount is signed – negative for debits, positive for credits.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – wallet owner.
//  Type          – kind of entry, see TransactionType.
//  Amount        – signed amount; negative debits the wallet.
//  Status        – entry status, see TransactionStatus.
//  ReferenceID   – optional id of the linked booking/topup (uuid or row id).
//  ReferenceType – what ReferenceID points at (RefBooking, RefTopup).
//  Note          – optional free-form note (admin adjustments).
//  CreatedAt     – creation timestamp.
//  ResolvedAt    – when a pending topup was approved or rejected.
type Transaction struct {
	ID            uint64            // wallet_transactions.id
	UserID        uint64            // wallet_transactions.user_id
	Type          TransactionType   // wallet_transactions.type
	Amount        decimal.Decimal   // wallet_transactions.amount (signed)
	Status        TransactionStatus // wallet_transactions.status
	ReferenceID   *string           // wallet_transactions.reference_id (nullable)
	ReferenceType *string           // wallet_transactions.reference_type (nullable)
	Note          *string           // wallet_transactions.note (nullable)
	CreatedAt     time.Time         // wallet_transactions.created_at
	ResolvedAt    *time.Time        // wallet_transactions.resolved_at (nullable)
}
