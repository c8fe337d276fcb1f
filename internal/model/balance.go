package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot caches the current wallet balance of one user for
// fast reads.  The wallet_transactions ledger remains the source of
// truth; the snapshot is updated in the same database transaction as
// every ledger write and can be rebuilt at any time from
// Σ(amount) over the user's Success entries.
//
// Fields:
//  UserID         – wallet owner; one row per user.
//  CurrentBalance – cached balance, must equal the ledger sum.
//  LastUpdated    – when the snapshot was last written.
type BalanceSnapshot struct {
	UserID         uint64          // balance_snapshots.user_id
	CurrentBalance decimal.Decimal // balance_snapshots.current_balance
	LastUpdated    time.Time       // balance_snapshots.last_updated
}
