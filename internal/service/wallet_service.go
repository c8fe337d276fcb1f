package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// auditTolerance is the absolute difference between a snapshot and its
// ledger sum below which the audit treats the pair as consistent.
var auditTolerance = decimal.NewFromFloat(0.01)

// WalletService owns the append-only wallet ledger and the per-user
// balance snapshot.  Every balance mutation follows the same shape:
// lock the snapshot row, verify the resulting balance, append a ledger
// entry and rewrite the snapshot, all in one transaction.  The ledger
// is the source of truth; the snapshot is a cache of Σ(amount) over
// SUCCESS entries and can always be rebuilt from it.
type WalletService struct {
	db       *sql.DB
	ledger   *repository.LedgerRepo
	balances *repository.BalanceRepo
	cache    *cache.BalanceCache
	notifier Notifier
}

// NewWalletService wires the wallet workflow.  cache may be nil;
// notifier must not be (use NopNotifier).
func NewWalletService(db *sql.DB, ledger *repository.LedgerRepo, balances *repository.BalanceRepo, bc *cache.BalanceCache, notifier Notifier) *WalletService {
	return &WalletService{db: db, ledger: ledger, balances: balances, cache: bc, notifier: notifier}
}

// applyEntryTx posts a ledger entry against the locked snapshot inside
// the caller's transaction.  It locks the user's snapshot row, checks
// that the resulting balance stays non-negative, appends the entry as
// SUCCESS and rewrites the snapshot.  The returned balance is the
// post-entry value.
func (s *WalletService) applyEntryTx(ctx context.Context, tx *sql.Tx, entry *model.Transaction) (decimal.Decimal, error) {
	balance, _, err := s.balances.GetForUpdateTx(ctx, tx, entry.UserID)
	if err != nil {
		return decimal.Zero, err
	}
	newBalance := balance.Add(entry.Amount)
	if newBalance.IsNegative() {
		return decimal.Zero, &repository.InsufficientBalanceError{
			UserID:    entry.UserID,
			Available: balance,
			Requested: entry.Amount.Neg(),
		}
	}
	entry.Status = model.TxSuccess
	if err := s.ledger.InsertTx(ctx, tx, entry); err != nil {
		return decimal.Zero, err
	}
	if err := s.balances.UpsertTx(ctx, tx, entry.UserID, newBalance, time.Now()); err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// debitTx posts a negative entry inside the caller's transaction.  The
// reservation workflow calls this so payment, booking row and
// inventory decrement share one atomic scope.  amount must be the
// positive magnitude of the charge.
func (s *WalletService) debitTx(ctx context.Context, tx *sql.Tx, userID uint64, amount decimal.Decimal, txType model.TransactionType, refID, refType string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, validationf("debit amount must be positive, got %s", amount)
	}
	entry := &model.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount.Neg(),
		ReferenceID:   &refID,
		ReferenceType: &refType,
	}
	return s.applyEntryTx(ctx, tx, entry)
}

// creditTx posts a positive entry inside the caller's transaction.
// The cancellation workflow uses it for refunds.
func (s *WalletService) creditTx(ctx context.Context, tx *sql.Tx, userID uint64, amount decimal.Decimal, txType model.TransactionType, refID, refType string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, validationf("credit amount must be positive, got %s", amount)
	}
	entry := &model.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		ReferenceID:   &refID,
		ReferenceType: &refType,
	}
	return s.applyEntryTx(ctx, tx, entry)
}

// afterBalanceChange refreshes the cache and announces the new balance
// once the owning transaction has committed.  Best effort.
func (s *WalletService) afterBalanceChange(ctx context.Context, userID uint64, balance decimal.Decimal) {
	s.cache.Set(ctx, userID, balance)
	s.cache.PublishChanged(ctx, userID, balance)
}

// CreateTransaction posts a standalone ledger entry with an explicit
// signed amount, typically an ADMIN_ADJUSTMENT.  A zero amount and
// unknown types are rejected; a debit that would overdraw the wallet
// fails with InsufficientBalanceError.
func (s *WalletService) CreateTransaction(ctx context.Context, userID uint64, txType model.TransactionType, amount decimal.Decimal, note *string) (*model.Transaction, error) {
	if !txType.Valid() {
		return nil, validationf("unknown transaction type %q", txType)
	}
	if amount.IsZero() {
		return nil, validationf("transaction amount must not be zero")
	}
	entry := &model.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount.Round(2),
		Note:   note,
	}
	var newBalance decimal.Decimal
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		newBalance, err = s.applyEntryTx(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterBalanceChange(ctx, userID, newBalance)
	return entry, nil
}

// Debit charges the wallet by the given positive amount.
func (s *WalletService) Debit(ctx context.Context, userID uint64, amount decimal.Decimal, txType model.TransactionType, refID, refType string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, validationf("debit amount must be positive, got %s", amount)
	}
	entry := &model.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount.Round(2).Neg(),
		ReferenceID:   &refID,
		ReferenceType: &refType,
	}
	var newBalance decimal.Decimal
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		newBalance, err = s.applyEntryTx(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterBalanceChange(ctx, userID, newBalance)
	return entry, nil
}

// Credit adds the given positive amount to the wallet.
func (s *WalletService) Credit(ctx context.Context, userID uint64, amount decimal.Decimal, txType model.TransactionType, refID, refType string) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, validationf("credit amount must be positive, got %s", amount)
	}
	entry := &model.Transaction{
		UserID:        userID,
		Type:          txType,
		Amount:        amount.Round(2),
		ReferenceID:   &refID,
		ReferenceType: &refType,
	}
	var newBalance decimal.Decimal
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		newBalance, err = s.applyEntryTx(ctx, tx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.afterBalanceChange(ctx, userID, newBalance)
	return entry, nil
}

// CreateTopupRequest records a PENDING topup that an admin must later
// approve or reject.  No balance changes until then; PENDING entries
// are excluded from the ledger sum.
func (s *WalletService) CreateTopupRequest(ctx context.Context, userID uint64, amount decimal.Decimal) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, validationf("topup amount must be positive, got %s", amount)
	}
	refID := uuid.NewString()
	refType := model.RefTopup
	entry := &model.Transaction{
		UserID:        userID,
		Type:          model.TxTopup,
		Amount:        amount.Round(2),
		Status:        model.TxPending,
		ReferenceID:   &refID,
		ReferenceType: &refType,
	}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.ledger.InsertTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ProcessTopup resolves a pending topup.  Approval locks the snapshot,
// flips the entry to SUCCESS and credits the balance; rejection flips
// it to FAILED and leaves the balance alone.  The status-guarded flip
// makes the operation single-shot: resolving an already-resolved entry
// fails with ErrAlreadyProcessed regardless of how many admins race.
func (s *WalletService) ProcessTopup(ctx context.Context, transactionID uint64, approve bool) (*model.Transaction, error) {
	var entry *model.Transaction
	var newBalance decimal.Decimal
	credited := false
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		entry, err = s.ledger.GetForUpdateTx(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if entry.Type != model.TxTopup {
			return validationf("transaction %d is not a topup", transactionID)
		}
		if entry.Status != model.TxPending {
			return repository.ErrAlreadyProcessed
		}
		now := time.Now()
		if !approve {
			if err := s.ledger.ResolveTx(ctx, tx, transactionID, model.TxFailed, now); err != nil {
				return err
			}
			entry.Status = model.TxFailed
			entry.ResolvedAt = &now
			return nil
		}
		balance, _, err := s.balances.GetForUpdateTx(ctx, tx, entry.UserID)
		if err != nil {
			return err
		}
		if err := s.ledger.ResolveTx(ctx, tx, transactionID, model.TxSuccess, now); err != nil {
			return err
		}
		newBalance = balance.Add(entry.Amount)
		if err := s.balances.UpsertTx(ctx, tx, entry.UserID, newBalance, now); err != nil {
			return err
		}
		entry.Status = model.TxSuccess
		entry.ResolvedAt = &now
		credited = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if credited {
		s.afterBalanceChange(ctx, entry.UserID, newBalance)
	}
	s.notifier.Notify(ctx, queue.Notification{
		EventID:   uuid.NewString(),
		UserID:    entry.UserID,
		Type:      queue.TypeTopupResolved,
		Title:     "Topup " + topupOutcome(approve),
		Message:   fmt.Sprintf("Your topup of %s was %s.", entry.Amount.StringFixed(2), topupOutcome(approve)),
		Metadata:  map[string]string{"transaction_id": fmt.Sprint(entry.ID)},
		CreatedAt: queue.Now(),
	})
	return entry, nil
}

func topupOutcome(approve bool) string {
	if approve {
		return "approved"
	}
	return "rejected"
}

// GetBalance returns the user's current balance, serving from the
// Redis cache when possible and falling back to the snapshot row.
func (s *WalletService) GetBalance(ctx context.Context, userID uint64) (*model.BalanceSnapshot, error) {
	if balance, ok := s.cache.Get(ctx, userID); ok {
		return &model.BalanceSnapshot{UserID: userID, CurrentBalance: balance}, nil
	}
	snapshot, _, err := s.balances.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, userID, snapshot.CurrentBalance)
	return snapshot, nil
}

// ListTransactions returns a user's ledger entries, newest first.
func (s *WalletService) ListTransactions(ctx context.Context, userID uint64) ([]model.Transaction, error) {
	return s.ledger.ListByUser(ctx, userID)
}

// Recalculate rebuilds a user's snapshot from the ledger.  The sum and
// the snapshot write happen in one transaction so a concurrent posting
// cannot slip between them.
func (s *WalletService) Recalculate(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		sum, err = s.ledger.SumPostedTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		return s.balances.UpsertTx(ctx, tx, userID, sum, time.Now())
	})
	if err != nil {
		return decimal.Zero, err
	}
	s.afterBalanceChange(ctx, userID, sum)
	return sum, nil
}

// Discrepancy is one audit finding: a user whose snapshot drifted from
// the ledger sum by more than the tolerance.
type Discrepancy struct {
	UserID    uint64          `json:"user_id"`
	Snapshot  decimal.Decimal `json:"snapshot_balance"`
	LedgerSum decimal.Decimal `json:"ledger_sum"`
	// Difference is Snapshot - LedgerSum.
	Difference decimal.Decimal `json:"difference"`
}

// Audit walks every user with wallet activity, compares each snapshot
// against its ledger sum and reports the pairs that differ by more
// than 0.01.  Read-only; repairs go through Recalculate.
func (s *WalletService) Audit(ctx context.Context) ([]Discrepancy, error) {
	ids, err := s.ledger.UserIDs(ctx)
	if err != nil {
		return nil, err
	}
	findings := make([]Discrepancy, 0)
	for _, id := range ids {
		snapshot, _, err := s.balances.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		sum, err := s.ledger.SumPosted(ctx, id)
		if err != nil {
			return nil, err
		}
		diff := snapshot.CurrentBalance.Sub(sum)
		if diff.Abs().GreaterThan(auditTolerance) {
			findings = append(findings, Discrepancy{
				UserID:     id,
				Snapshot:   snapshot.CurrentBalance,
				LedgerSum:  sum,
				Difference: diff,
			})
		}
	}
	return findings, nil
}
