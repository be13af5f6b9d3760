package handlers

import (
	"mime"
	"net/http"
	"usemytime/internal/http/dto"
	"usemytime/internal/service"
)

// POST /projects/{id}/review/submit
//
// Accepts either a JSON body with a comment or a multipart form with a
// "comment" field and any number of "files".
func (h *Handler) SubmitForReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var (
		comment string
		files   []service.Upload
	)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		form, ok := h.parseMultipart(w, r)
		if !ok {
			return
		}
		defer form.close()

		comment = r.FormValue("comment")
		files, err = form.uploads("files")
		if err != nil {
			h.fail(w, r, err)
			return
		}
	} else {
		var req dto.ReviewRequest
		if err := decodeJSON(r, &req); err != nil {
			h.fail(w, r, err)
			return
		}
		comment = req.Comment
	}

	p, err := h.svc.SubmitForReview(r.Context(), actorID(r), id, comment, files)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Project(p))
}

// POST /projects/{id}/review/approve
func (h *Handler) ApproveProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.svc.ApproveProject(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Project(p))
}

// POST /projects/{id}/review/reject
func (h *Handler) RejectProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req dto.ReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p, err := h.svc.RejectProject(r.Context(), actorID(r), id, req.Comment)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Project(p))
}

// GET /reviews
func (h *Handler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ReviewQueue(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReviewItems(items))
}

// GET /reviews/count
func (h *Handler) ReviewCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ReviewCount(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CountResponse{Count: n})
}
