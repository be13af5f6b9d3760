package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"usemytime/internal/domain"
	"usemytime/internal/http/middleware"
	"usemytime/internal/service"
	"usemytime/internal/workerpool"
)

type Service interface {
	RegisterUser(ctx context.Context, in service.Registration) (domain.User, error)
	Me(ctx context.Context, actorID int64) (service.Account, error)
	UpdateOwnProfile(ctx context.Context, actorID int64, upd service.ProfileUpdate) (service.Account, error)
	MyTeam(ctx context.Context, actorID int64) ([]service.TeamMember, error)
	EditEmployee(ctx context.Context, actorID, userID int64, upd service.ProfileUpdate) (service.Account, error)
	ListDepartments(ctx context.Context, actorID int64) ([]domain.Department, error)

	CreateProject(ctx context.Context, actorID int64, in service.ProjectInput) (service.ProjectDetail, error)
	UpdateProject(ctx context.Context, actorID, projectID int64, in service.ProjectInput) (service.ProjectDetail, error)
	DeleteProject(ctx context.Context, actorID, projectID int64) error
	ArchiveProject(ctx context.Context, actorID, projectID int64) (domain.Project, error)
	ListProjects(ctx context.Context, actorID int64, archived bool) ([]domain.Project, error)
	ProjectDetail(ctx context.Context, actorID, projectID int64) (service.ProjectDetail, error)
	MyTasks(ctx context.Context, actorID int64) ([]domain.Task, error)

	ActivateProject(ctx context.Context, actorID, projectID int64) (domain.ProjectTimer, error)
	StartTimer(ctx context.Context, actorID, projectID int64) (domain.ProjectTimer, error)
	StopTimer(ctx context.Context, actorID, projectID int64) (int64, error)
	AdvanceTask(ctx context.Context, actorID, taskID int64) (domain.Task, error)

	SubmitForReview(ctx context.Context, actorID, projectID int64, comment string, files []service.Upload) (domain.Project, error)
	ApproveProject(ctx context.Context, actorID, projectID int64) (domain.Project, error)
	RejectProject(ctx context.Context, actorID, projectID int64, comment string) (domain.Project, error)
	ReviewQueue(ctx context.Context, actorID int64) ([]service.ReviewItem, error)
	ReviewCount(ctx context.Context, actorID int64) (int, error)

	UploadAttachment(ctx context.Context, actorID, projectID int64, f service.Upload) (domain.Attachment, error)
	OpenAttachment(ctx context.Context, actorID, projectID, attachmentID int64) (domain.Attachment, io.ReadCloser, error)

	EmployeeReport(ctx context.Context, actorID, employeeID int64, period service.Period) (service.EmployeeReport, error)
	TeamReport(ctx context.Context, actorID, departmentID int64, period service.Period) (service.TeamReport, error)

	AskQuestion(ctx context.Context, actorID int64, body string) (domain.Question, error)
}

// TimerPool queues background "stop all timers" jobs.
type TimerPool interface {
	Enqueue(userID int64) error
}

// Pinger is the storage readiness check behind /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc       Service
	pool      TimerPool
	pinger    Pinger
	log       *slog.Logger
	maxUpload int64
}

type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.log = l }
}

func WithPinger(p Pinger) Option {
	return func(h *Handler) { h.pinger = p }
}

// WithMaxUpload caps multipart request bodies.
func WithMaxUpload(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

func New(svc Service, pool TimerPool, opts ...Option) *Handler {
	h := &Handler{
		svc:       svc,
		pool:      pool,
		log:       slog.New(slog.DiscardHandler),
		maxUpload: 10 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.log.Error("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  "storage unavailable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps service and pool errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrSubmitEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, service.ErrUnauthenticated.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrSelfReview),
		errors.Is(err, service.ErrNotSubordinate):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrProjectLocked),
		errors.Is(err, service.ErrProjectArchived),
		errors.Is(err, service.ErrTimerRunning),
		errors.Is(err, service.ErrTimerNotRunning),
		errors.Is(err, service.ErrNoRunningTimer),
		errors.Is(err, service.ErrMinimumDwell),
		errors.Is(err, service.ErrTasksIncomplete),
		errors.Is(err, service.ErrReviewState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workerpool.ErrPoolFull),
		errors.Is(err, workerpool.ErrPoolClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("request failed",
			"request_id", middleware.RequestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func actorID(r *http.Request) int64 {
	return middleware.UserIDFrom(r.Context())
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidID
	}
	return id, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
