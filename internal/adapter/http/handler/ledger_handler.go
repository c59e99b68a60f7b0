package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payrail/payrail/internal/adapter/http/dto"
	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/usecase"
)

// LedgerHandler handles ledger application HTTP requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Apply applies a transfer to the ledger as paired entries.
func (h *LedgerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req domain.LedgerApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	if req.TransferID == "" || req.FromAccountID == "" || req.ToAccountID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "transfer_id, from_account_id and to_account_id are required")
		return
	}

	result, err := h.ledgerUC.ApplyTransfer(r.Context(), usecase.ApplyTransferInput{
		TransferID:    req.TransferID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
	})
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListByTransfer lists the entries recorded for a transfer.
func (h *LedgerHandler) ListByTransfer(w http.ResponseWriter, r *http.Request) {
	transferID := chi.URLParam(r, "id")
	if transferID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "missing transfer ID")
		return
	}

	entries, err := h.ledgerUC.GetTransferEntries(r.Context(), transferID)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// ListByAccount lists entries for an account with pagination.
func (h *LedgerHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "missing account ID")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.ledgerUC.GetAccountEntries(r.Context(), accountID, limit, offset)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
