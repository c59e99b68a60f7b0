package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payrail/payrail/internal/adapter/http/dto"
	"github.com/payrail/payrail/internal/adapter/http/handler"
	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/usecase"
	"github.com/payrail/payrail/internal/usecase/mocks"
)

func newTransferRouter(t *testing.T) (chi.Router, *mocks.MockTransferRepository) {
	t.Helper()

	transferRepo := mocks.NewMockTransferRepository()

	uc := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		TxManager:    mocks.NewMockTransactionManager(),
		TransferRepo: transferRepo,
		OutboxRepo:   mocks.NewMockOutboxRepository(),
		Idempotency:  mocks.NewMockIdempotencyStore(),
		IDGen:        mocks.NewMockIDGenerator(),
		Logger:       zerolog.Nop(),
	})

	h := handler.NewTransferHandler(uc)

	r := chi.NewRouter()
	r.Post("/api/v1/transfers/", h.Initiate)
	r.Post("/api/v1/transfers/batch", h.InitiateBatch)
	r.Get("/api/v1/transfers/{id}", h.Get)

	return r, transferRepo
}

func decodeError(t *testing.T, body *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body.Body).Decode(&resp))

	return resp
}

func TestTransferHandler_Initiate(t *testing.T) {
	router, _ := newTransferRouter(t)

	body := `{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"25.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/", strings.NewReader(body))
	req.Header.Set(handler.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.TransferResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "acc-1", resp.FromAccountID)
	assert.Equal(t, "acc-2", resp.ToAccountID)
	assert.Equal(t, "25.5", resp.Amount.String())
	assert.Equal(t, string(domain.TransferStatusProcessing), resp.Status)
}

func TestTransferHandler_InitiateRequiresIdempotencyKey(t *testing.T) {
	router, _ := newTransferRouter(t)

	body := `{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_HEADER", decodeError(t, rec).Code)
}

func TestTransferHandler_InitiateRejectsMalformedBody(t *testing.T) {
	router, _ := newTransferRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/", strings.NewReader("{not json"))
	req.Header.Set(handler.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, rec).Code)
}

func TestTransferHandler_InitiateInvalidAmount(t *testing.T) {
	router, _ := newTransferRouter(t)

	body := `{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"-5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/", strings.NewReader(body))
	req.Header.Set(handler.IdempotencyKeyHeader, "key-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_AMOUNT", decodeError(t, rec).Code)
}

func TestTransferHandler_InitiateBatch(t *testing.T) {
	router, _ := newTransferRouter(t)

	body := `{"transfers":[
		{"from_account_id":"acc-1","to_account_id":"acc-2","amount":"10"},
		{"from_account_id":"acc-2","to_account_id":"acc-3","amount":"20"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/batch", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp []dto.TransferResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "10", resp[0].Amount.String())
	assert.Equal(t, "20", resp[1].Amount.String())
}

func TestTransferHandler_InitiateBatchRejectsEmptyBatch(t *testing.T) {
	router, _ := newTransferRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/batch", strings.NewReader(`{"transfers":[]}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BATCH_SIZE", decodeError(t, rec).Code)
}

func TestTransferHandler_GetNotFound(t *testing.T) {
	router, _ := newTransferRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/missing", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "TRANSFER_NOT_FOUND", decodeError(t, rec).Code)
}
