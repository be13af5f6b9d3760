package handlers

import (
	"net/http"
	"usemytime/internal/http/dto"
	"usemytime/internal/service"
)

// POST /users
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.svc.RegisterUser(r.Context(), service.Registration{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.User(u, nil))
}

// GET /users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	acc, err := h.svc.Me(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Account(acc))
}

// PATCH /users/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	acc, err := h.svc.UpdateOwnProfile(r.Context(), actorID(r), profileUpdate(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Account(acc))
}

// GET /departments
func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.svc.ListDepartments(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response := make([]dto.DepartmentResponse, 0, len(deps))
	for _, d := range deps {
		response = append(response, dto.Department(d))
	}
	writeJSON(w, http.StatusOK, response)
}

// GET /team
func (h *Handler) Team(w http.ResponseWriter, r *http.Request) {
	team, err := h.svc.MyTeam(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Team(team))
}

// PATCH /team/{userID}
func (h *Handler) EditEmployee(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	acc, err := h.svc.EditEmployee(r.Context(), actorID(r), userID, profileUpdate(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Account(acc))
}

// POST /questions
func (h *Handler) AskQuestion(w http.ResponseWriter, r *http.Request) {
	var req dto.QuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	q, err := h.svc.AskQuestion(r.Context(), actorID(r), req.Body)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.Question(q))
}

func profileUpdate(req dto.ProfileRequest) service.ProfileUpdate {
	return service.ProfileUpdate{
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Patronymic:    req.Patronymic,
		Position:      req.Position,
		PhoneInternal: req.PhoneInternal,
		DepartmentID:  req.DepartmentID,
	}
}
