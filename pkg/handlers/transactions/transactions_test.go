package transactions

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/models"
	service_mocks "github.com/chris/account-ledger/pkg/service/mocks"
)

func successTx(txType models.TransactionType) *models.Transaction {
	return &models.Transaction{
		ID:              "id-1",
		TransactionID:   "feed0000beef0000feed0000beef0000",
		AccountID:       "acct-1",
		AccountNumber:   "1000000000",
		Type:            txType,
		Result:          models.ResultSuccess,
		Amount:          200,
		BalanceSnapshot: 9800,
		TransactedAt:    time.Now(),
	}
}

func TestUseBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("UseBalance", mock.Anything, int64(1), "1000000000", int64(200)).
			Return(successTx(models.TypeUse), nil)

		body, _ := json.Marshal(&api.UseBalanceRequest{UserID: 1, AccountNumber: "1000000000", Amount: 200})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UseBalance(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.TransactionResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "1000000000", resp.AccountNumber)
		assert.Equal(t, "S", resp.TransactionResult)
		assert.Equal(t, int64(200), resp.Amount)
		mockService.AssertExpectations(t)
	})

	t.Run("Malformed Account Number", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		body, _ := json.Marshal(&api.UseBalanceRequest{UserID: 1, AccountNumber: "12345", Amount: 200})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UseBalance(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp api.Error
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, string(errs.InvalidRequest), resp.ErrorCode)
		mockService.AssertNotCalled(t, "UseBalance")
	})

	t.Run("Non Positive Amount", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		body, _ := json.Marshal(&api.UseBalanceRequest{UserID: 1, AccountNumber: "1000000000", Amount: 0})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UseBalance(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "UseBalance")
	})

	t.Run("State Violation Records Failed Attempt", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("UseBalance", mock.Anything, int64(1), "1000000000", int64(200)).
			Return(nil, errs.E(errs.AmountExceedsBalance))
		mockService.On("SaveFailedUseTransaction", mock.Anything, "1000000000", int64(200)).
			Return(&models.Transaction{Result: models.ResultFail}, nil)

		body, _ := json.Marshal(&api.UseBalanceRequest{UserID: 1, AccountNumber: "1000000000", Amount: 200})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UseBalance(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		var resp api.Error
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, string(errs.AmountExceedsBalance), resp.ErrorCode)
		mockService.AssertExpectations(t)
	})

	t.Run("Not Found Is Not Recorded", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("UseBalance", mock.Anything, int64(1), "1000000000", int64(200)).
			Return(nil, errs.E(errs.AccountNotFound))

		body, _ := json.Marshal(&api.UseBalanceRequest{UserID: 1, AccountNumber: "1000000000", Amount: 200})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UseBalance(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertNotCalled(t, "SaveFailedUseTransaction")
		mockService.AssertExpectations(t)
	})

	t.Run("Contention Is Not Recorded", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("UseBalance", mock.Anything, int64(1), "1000000000", int64(200)).
			Return(nil, errs.E(errs.Contention))

		body, _ := json.Marshal(&api.UseBalanceRequest{UserID: 1, AccountNumber: "1000000000", Amount: 200})
		req := httptest.NewRequest(http.MethodPost, "/transactions/use", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.UseBalance(rr, req)

		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		var resp api.Error
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, string(errs.Contention), resp.ErrorCode)
		mockService.AssertNotCalled(t, "SaveFailedUseTransaction")
		mockService.AssertExpectations(t)
	})
}

func TestCancelBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("CancelBalance", mock.Anything, "feed0000beef0000feed0000beef0000", "1000000000", int64(200)).
			Return(successTx(models.TypeCancel), nil)

		body, _ := json.Marshal(&api.CancelBalanceRequest{
			TransactionID: "feed0000beef0000feed0000beef0000",
			AccountNumber: "1000000000",
			Amount:        200,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/cancel", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CancelBalance(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing Transaction ID", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		body, _ := json.Marshal(&api.CancelBalanceRequest{AccountNumber: "1000000000", Amount: 200})
		req := httptest.NewRequest(http.MethodPost, "/transactions/cancel", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CancelBalance(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CancelBalance")
	})

	t.Run("State Violation Records Failed Attempt", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("CancelBalance", mock.Anything, "feed0000beef0000feed0000beef0000", "1000000000", int64(200)).
			Return(nil, errs.E(errs.AmountMismatch))
		mockService.On("SaveFailedCancelTransaction", mock.Anything, "1000000000", int64(200)).
			Return(&models.Transaction{Result: models.ResultFail}, nil)

		body, _ := json.Marshal(&api.CancelBalanceRequest{
			TransactionID: "feed0000beef0000feed0000beef0000",
			AccountNumber: "1000000000",
			Amount:        200,
		})
		req := httptest.NewRequest(http.MethodPost, "/transactions/cancel", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CancelBalance(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestGetTransaction(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("QueryTransaction", mock.Anything, "feed0000beef0000feed0000beef0000").
			Return(successTx(models.TypeUse), nil)

		router := chi.NewRouter()
		router.Get("/transactions/{transactionID}", handler.GetTransaction)

		req := httptest.NewRequest(http.MethodGet, "/transactions/feed0000beef0000feed0000beef0000", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.QueryTransactionResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "USE", resp.TransactionType)
		assert.Equal(t, "S", resp.TransactionResult)
		mockService.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockService := new(service_mocks.TransactionService)
		handler := NewTransactionsHandler(mockService)

		mockService.On("QueryTransaction", mock.Anything, "missing").
			Return(nil, errs.E(errs.TransactionNotFound))

		router := chi.NewRouter()
		router.Get("/transactions/{transactionID}", handler.GetTransaction)

		req := httptest.NewRequest(http.MethodGet, "/transactions/missing", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp api.Error
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, string(errs.TransactionNotFound), resp.ErrorCode)
		mockService.AssertExpectations(t)
	})
}
