package router

import (
	"net/http"
	"usemytime/internal/http/handlers"
	"usemytime/internal/http/middleware"
)

func New(handler *handlers.Handler, mws middleware.Middlewares) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.Health)

	mux.HandleFunc("POST /users", handler.Register)
	mux.HandleFunc("GET /users/me", handler.Me)
	mux.HandleFunc("PATCH /users/me", handler.UpdateMe)
	mux.HandleFunc("GET /departments", handler.Departments)
	mux.HandleFunc("GET /team", handler.Team)
	mux.HandleFunc("PATCH /team/{userID}", handler.EditEmployee)

	mux.HandleFunc("GET /projects", handler.ListProjects)
	mux.HandleFunc("POST /projects", handler.CreateProject)
	mux.HandleFunc("GET /projects/{id}", handler.GetProject)
	mux.HandleFunc("PUT /projects/{id}", handler.UpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", handler.DeleteProject)
	mux.HandleFunc("POST /projects/{id}/archive", handler.ArchiveProject)
	mux.HandleFunc("POST /projects/{id}/activate", handler.ActivateProject)

	mux.HandleFunc("POST /projects/{id}/timer/start", handler.StartTimer)
	mux.HandleFunc("POST /projects/{id}/timer/stop", handler.StopTimer)
	mux.HandleFunc("POST /timers/stop-all", handler.StopAllTimers)

	mux.HandleFunc("GET /tasks", handler.MyTasks)
	mux.HandleFunc("POST /tasks/{id}/advance", handler.AdvanceTask)

	mux.HandleFunc("POST /projects/{id}/review/submit", handler.SubmitForReview)
	mux.HandleFunc("POST /projects/{id}/review/approve", handler.ApproveProject)
	mux.HandleFunc("POST /projects/{id}/review/reject", handler.RejectProject)
	mux.HandleFunc("GET /reviews", handler.ReviewQueue)
	mux.HandleFunc("GET /reviews/count", handler.ReviewCount)

	mux.HandleFunc("POST /projects/{id}/attachments", handler.UploadAttachment)
	mux.HandleFunc("GET /projects/{id}/attachments/{attachmentID}", handler.DownloadAttachment)

	mux.HandleFunc("GET /reports/employees/{userID}", handler.EmployeeReport)
	mux.HandleFunc("GET /reports/team", handler.TeamReport)

	mux.HandleFunc("POST /questions", handler.AskQuestion)

	return mws.Handler(mux)
}
