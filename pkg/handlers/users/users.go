package users

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/chris/account-ledger/pkg/api"
	"github.com/chris/account-ledger/pkg/handlers/respond"
	"github.com/chris/account-ledger/pkg/mapping"
	"github.com/chris/account-ledger/pkg/models"
	"github.com/chris/account-ledger/pkg/storage"
)

// UsersHandler holds the dependencies for user-related handlers. Users sit
// outside the core; this handler is the "external creator" the core assumes.
type UsersHandler struct {
	Store storage.UserStore
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(store storage.UserStore) *UsersHandler {
	return &UsersHandler{Store: store}
}

// CreateUser handles the logic for registering a new account user.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req api.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ValidationError(w, "invalid request body")
		return
	}
	if req.ID <= 0 {
		respond.ValidationError(w, "id must be positive")
		return
	}
	if req.Name == "" {
		respond.ValidationError(w, "name is required")
		return
	}

	user, err := h.Store.CreateUser(r.Context(), &models.AccountUser{
		ID:        req.ID,
		Name:      req.Name,
		CreatedAt: time.Now(),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiUser(user))
}
