package accounts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/errs"
	"github.com/chris/account-ledger/pkg/models"
	service_mocks "github.com/chris/account-ledger/pkg/service/mocks"
)

func TestCreateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		created := &models.Account{
			ID:            "acct-1",
			OwnerID:       1,
			AccountNumber: "1000000000",
			Balance:       10000,
			Status:        models.AccountInUse,
			RegisteredAt:  time.Now(),
		}
		mockService.On("CreateAccount", mock.Anything, int64(1), int64(10000)).Return(created, nil)

		body, _ := json.Marshal(&api.CreateAccountRequest{UserID: 1, InitialBalance: 10000})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateAccount(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var resp api.CreateAccountResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.UserID)
		assert.Equal(t, "1000000000", resp.AccountNumber)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid User ID", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		body, _ := json.Marshal(&api.CreateAccountRequest{UserID: 0, InitialBalance: 10000})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateAccount(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateAccount")
	})

	t.Run("Negative Initial Balance", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		body, _ := json.Marshal(&api.CreateAccountRequest{UserID: 1, InitialBalance: -1})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateAccount(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "CreateAccount")
	})

	t.Run("Max Accounts Reached", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		mockService.On("CreateAccount", mock.Anything, int64(1), int64(0)).
			Return(nil, errs.E(errs.MaxAccountsPerUser))

		body, _ := json.Marshal(&api.CreateAccountRequest{UserID: 1})
		req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.CreateAccount(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		var resp api.Error
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, string(errs.MaxAccountsPerUser), resp.ErrorCode)
		mockService.AssertExpectations(t)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		now := time.Now()
		deleted := &models.Account{
			OwnerID:        1,
			AccountNumber:  "1000000000",
			Status:         models.AccountUnregistered,
			UnregisteredAt: &now,
		}
		mockService.On("DeleteAccount", mock.Anything, int64(1), "1000000000").Return(deleted, nil)

		body, _ := json.Marshal(&api.DeleteAccountRequest{UserID: 1, AccountNumber: "1000000000"})
		req := httptest.NewRequest(http.MethodDelete, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.DeleteAccount(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.DeleteAccountResponse
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "1000000000", resp.AccountNumber)
		assert.NotNil(t, resp.UnregisteredAt)
		mockService.AssertExpectations(t)
	})

	t.Run("Malformed Account Number", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		body, _ := json.Marshal(&api.DeleteAccountRequest{UserID: 1, AccountNumber: "12345"})
		req := httptest.NewRequest(http.MethodDelete, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.DeleteAccount(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "DeleteAccount")
	})

	t.Run("Balance Not Empty", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		mockService.On("DeleteAccount", mock.Anything, int64(1), "1000000000").
			Return(nil, errs.E(errs.BalanceNotEmpty))

		body, _ := json.Marshal(&api.DeleteAccountRequest{UserID: 1, AccountNumber: "1000000000"})
		req := httptest.NewRequest(http.MethodDelete, "/accounts", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		handler.DeleteAccount(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		owned := []models.Account{
			{AccountNumber: "1000000000", Balance: 100},
			{AccountNumber: "1000000001", Balance: 200},
		}
		mockService.On("ListAccounts", mock.Anything, int64(1)).Return(owned, nil)

		req := httptest.NewRequest(http.MethodGet, "/accounts?user_id=1", nil)
		rr := httptest.NewRecorder()

		handler.ListAccounts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp []*api.AccountInfo
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
		assert.Equal(t, "1000000000", resp[0].AccountNumber)
		assert.Equal(t, int64(200), resp[1].Balance)
		mockService.AssertExpectations(t)
	})

	t.Run("Missing User ID", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		rr := httptest.NewRecorder()

		handler.ListAccounts(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "ListAccounts")
	})

	t.Run("Unknown User", func(t *testing.T) {
		mockService := new(service_mocks.AccountService)
		handler := NewAccountsHandler(mockService)

		mockService.On("ListAccounts", mock.Anything, int64(42)).
			Return(nil, errs.E(errs.UserNotFound))

		req := httptest.NewRequest(http.MethodGet, "/accounts?user_id=42", nil)
		rr := httptest.NewRecorder()

		handler.ListAccounts(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}
