package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payrail/payrail/internal/adapter/http/dto"
	"github.com/payrail/payrail/internal/usecase"
)

// IdempotencyKeyHeader is the header carrying the client's dedup key.
const IdempotencyKeyHeader = "Idempotency-Key"

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC *usecase.TransferUseCase
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC *usecase.TransferUseCase) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Initiate accepts a single transfer request. The Idempotency-Key
// header is mandatory here; a second request with the same key replays
// the first response.
func (h *TransferHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(IdempotencyKeyHeader)
	if key == "" {
		writeError(w, http.StatusBadRequest, codeMissingHeader, "Idempotency-Key header is required")
		return
	}

	var req dto.InitiateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	transfer, err := h.transferUC.InitiateTransfer(r.Context(), req.ToUseCaseInput(), key)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// InitiateBatch accepts a batch of transfer requests. The idempotency
// key is optional and covers the batch as a whole.
func (h *TransferHandler) InitiateBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)

	transfers, err := h.transferUC.InitiateBatch(r.Context(), req.ToUseCaseInput(), key)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransfersFromDomain(transfers))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "missing transfer ID")
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}
