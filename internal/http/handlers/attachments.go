package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"usemytime/internal/http/dto"
	"usemytime/internal/service"
)

// POST /projects/{id}/attachments
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	form, ok := h.parseMultipart(w, r)
	if !ok {
		return
	}
	defer form.close()

	files, err := form.uploads("file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(files) != 1 {
		writeError(w, http.StatusBadRequest, "exactly one file is required")
		return
	}

	a, err := h.svc.UploadAttachment(r.Context(), actorID(r), id, files[0])
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.Attachment(a))
}

// GET /projects/{id}/attachments/{attachmentID}
func (h *Handler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	attachmentID, err := pathID(r, "attachmentID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	a, body, err := h.svc.OpenAttachment(r.Context(), actorID(r), projectID, attachmentID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer body.Close()

	ct := mime.TypeByExtension(path.Ext(a.Name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.log.Warn("attachment download interrupted", "attachment_id", a.ID, "err", err)
	}
}

// multipartForm tracks the files opened from a parsed form.
type multipartForm struct {
	r      *http.Request
	opened []multipart.File
}

// parseMultipart reads a size-capped multipart body. On failure it has
// already written the response.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (*multipartForm, bool) {
	tooLarge := func() {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", h.maxUpload))
	}
	if r.ContentLength > h.maxUpload {
		tooLarge()
		return nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge()
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}
	return &multipartForm{r: r}, true
}

func (f *multipartForm) uploads(field string) ([]service.Upload, error) {
	var out []service.Upload
	for _, fh := range f.r.MultipartForm.File[field] {
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
		}
		f.opened = append(f.opened, file)
		out = append(out, service.Upload{Name: fh.Filename, Body: file})
	}
	return out, nil
}

func (f *multipartForm) close() {
	for _, file := range f.opened {
		_ = file.Close()
	}
	_ = f.r.MultipartForm.RemoveAll()
}
