package handlers

import (
	"net/http"
	"usemytime/internal/http/dto"
)

// POST /projects/{id}/activate
func (h *Handler) ActivateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	timer, err := h.svc.ActivateProject(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Timer(timer))
}

// POST /projects/{id}/timer/start
func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	timer, err := h.svc.StartTimer(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Timer(timer))
}

// POST /projects/{id}/timer/stop
func (h *Handler) StopTimer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	seconds, err := h.svc.StopTimer(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StopTimerResponse{ProjectID: id, Seconds: seconds})
}

// POST /timers/stop-all
//
// Sent as a beacon when the page closes, so the work happens in the pool.
func (h *Handler) StopAllTimers(w http.ResponseWriter, r *http.Request) {
	// Unknown users are turned away here; the queued job has no caller to
	// report to.
	me, err := h.svc.Me(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.pool.Enqueue(me.User.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// GET /tasks
func (h *Handler) MyTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.MyTasks(r.Context(), actorID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Tasks(tasks))
}

// POST /tasks/{id}/advance
func (h *Handler) AdvanceTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	task, err := h.svc.AdvanceTask(r.Context(), actorID(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.Task(task))
}
