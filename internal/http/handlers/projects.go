package handlers

import (
	"net/http"
	"strconv"
	"usemytime/internal/http/dto"
	"usemytime/internal/service"
)

// GET /projects?archived=true
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	archived := false
	if v := r.URL.Query().Get("archived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "archived must be true or false")
			return
		}
		archived = b
	}

	projects, err := h.svc.ListProjects(r.Context(), actorID(r), archived)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Projects(projects))
}

// POST /projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.svc.CreateProject(r.Context(), actorID(r), projectInput(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProjectDetail(d))
}

// GET /projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.svc.ProjectDetail(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectDetail(d))
}

// PUT /projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.ProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.svc.UpdateProject(r.Context(), actorID(r), id, projectInput(req))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectDetail(d))
}

// DELETE /projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.DeleteProject(r.Context(), actorID(r), id); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /projects/{id}/archive
func (h *Handler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.svc.ArchiveProject(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Project(p))
}

func projectInput(req dto.ProjectRequest) service.ProjectInput {
	return service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Tasks:       req.Tasks,
	}
}
