package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// WalletHandler exposes the wallet: balance reads, ledger listing,
// topup requests and the admin operations (topup resolution, manual
// adjustments, recalculation, audit).
type WalletHandler struct {
	Wallet *service.WalletService
}

// NewWalletHandler constructs a WalletHandler and panics on nil deps.
func NewWalletHandler(wallet *service.WalletService) *WalletHandler {
	if wallet == nil {
		panic("nil service passed to NewWalletHandler")
	}
	return &WalletHandler{Wallet: wallet}
}

type topupReq struct {
	Amount string `json:"amount"`
}

type processTopupReq struct {
	Approve bool `json:"approve"`
}

type adjustmentReq struct {
	UserID uint64  `json:"user_id"`
	Amount string  `json:"amount"` // signed; negative debits the wallet
	Note   *string `json:"note"`
}

type transactionResp struct {
	ID            uint64  `json:"id"`
	UserID        uint64  `json:"user_id"`
	Type          string  `json:"type"`
	Amount        string  `json:"amount"`
	Status        string  `json:"status"`
	ReferenceID   *string `json:"reference_id,omitempty"`
	ReferenceType *string `json:"reference_type,omitempty"`
	Note          *string `json:"note,omitempty"`
	CreatedAt     string  `json:"created_at"`
	ResolvedAt    *string `json:"resolved_at,omitempty"`
}

func toTransactionResp(t *model.Transaction) transactionResp {
	resp := transactionResp{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          string(t.Type),
		Amount:        t.Amount.StringFixed(2),
		Status:        string(t.Status),
		ReferenceID:   t.ReferenceID,
		ReferenceType: t.ReferenceType,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.ResolvedAt != nil {
		v := t.ResolvedAt.UTC().Format(time.RFC3339)
		resp.ResolvedAt = &v
	}
	return resp
}

// GetBalance handles GET /v1/wallet/balance.
func (h *WalletHandler) GetBalance(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	snapshot, err := h.Wallet.GetBalance(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": snapshot.UserID,
		"balance": snapshot.CurrentBalance.StringFixed(2),
	})
}

// ListTransactions handles GET /v1/wallet/transactions.
func (h *WalletHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	txs, err := h.Wallet.ListTransactions(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]transactionResp, 0, len(txs))
	for i := range txs {
		out = append(out, toTransactionResp(&txs[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateTopup handles POST /v1/wallet/topups.  The entry stays PENDING
// until an admin resolves it.
func (h *WalletHandler) CreateTopup(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req topupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	entry, err := h.Wallet.CreateTopupRequest(c.Request().Context(), userID, amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toTransactionResp(entry))
}

// ProcessTopup handles POST /v1/admin/topups/:id (admin only).
func (h *WalletHandler) ProcessTopup(c echo.Context) error {
	txID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid transaction id"})
	}
	var req processTopupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	entry, err := h.Wallet.ProcessTopup(c.Request().Context(), txID, req.Approve)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toTransactionResp(entry))
}

// CreateAdjustment handles POST /v1/admin/adjustments (admin only).
// The amount is signed; corrections are new ledger entries, never
// edits of old ones.
func (h *WalletHandler) CreateAdjustment(c echo.Context) error {
	var req adjustmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	entry, err := h.Wallet.CreateTransaction(c.Request().Context(), req.UserID,
		model.TxAdminAdjustment, amount, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toTransactionResp(entry))
}

// Recalculate handles POST /v1/admin/wallets/:id/recalculate (admin
// only).  Rebuilds the user's snapshot from the ledger.
func (h *WalletHandler) Recalculate(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	sum, err := h.Wallet.Recalculate(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": userID,
		"balance": sum.StringFixed(2),
	})
}

// Audit handles GET /v1/admin/wallets/audit (admin only).
func (h *WalletHandler) Audit(c echo.Context) error {
	findings, err := h.Wallet.Audit(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "audit failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"consistent":    len(findings) == 0,
		"discrepancies": findings,
	})
}
