package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/userdesk/api/internal/api/types"
	"github.com/userdesk/api/internal/services"
)

// UsersHandler translates HTTP requests into UserService calls and shapes
// the results into response models.
type UsersHandler struct {
	svc      services.UserService
	validate *validator.Validate
}

func NewUsersHandler(svc services.UserService, v *validator.Validate) *UsersHandler {
	return &UsersHandler{svc: svc, validate: v}
}

// List handles GET /users/?skip={int}&limit={int}.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := h.svc.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewUserViews(users))
}

// Get handles GET /users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewUserView(u))
}

// Login handles POST /users/login/.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginUser
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.svc.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.LoginResult{Success: true})
}

// Create handles POST /users/.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateUser
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.svc.Create(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.NewUserView(u))
}

// Patch handles PATCH /users/{id}. Omitted fields are left untouched.
func (h *UsersHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req types.PatchUser
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.svc.Patch(r.Context(), id, req.Email, req.IsActive)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewUserView(u))
}

// PatchPassword handles PATCH /users/password/{id}.
func (h *UsersHandler) PatchPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req types.PatchUserPassword
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.svc.PatchPassword(r.Context(), id, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewUserView(u))
}

// Update handles PUT /users/{id}, replacing the entire mutable state.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req types.UpdateUser
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.svc.Update(r.Context(), id, req.Email, *req.IsActive, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewUserView(u))
}

// Delete handles DELETE /users/{id} and returns the removed record.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewUserView(u))
}

func (h *UsersHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, types.StatusForError(err), types.ErrorResponse{Error: types.FromAppError(err)})
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: types.APIError{Code: "invalid", Message: msg}})
}
