package handlers

import (
	"net/http"
	"strconv"
	"usemytime/internal/http/dto"
	"usemytime/internal/service"
)

// GET /reports/employees/{userID}?start_date=&end_date=
func (h *Handler) EmployeeReport(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report, err := h.svc.EmployeeReport(r.Context(), actorID(r), userID, period(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EmployeeReport(report))
}

// GET /reports/team?department=&start_date=&end_date=
func (h *Handler) TeamReport(w http.ResponseWriter, r *http.Request) {
	var department int64
	if v := r.URL.Query().Get("department"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			h.fail(w, r, service.ErrInvalidID)
			return
		}
		department = id
	}

	report, err := h.svc.TeamReport(r.Context(), actorID(r), department, period(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TeamReport(report))
}

func period(r *http.Request) service.Period {
	q := r.URL.Query()
	return service.ParsePeriod(q.Get("start_date"), q.Get("end_date"))
}
