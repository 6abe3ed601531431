package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Aishakabeer/todolist/embed/web"
	"github.com/Aishakabeer/todolist/internal/calendar"
	"github.com/Aishakabeer/todolist/internal/tasks"
	"github.com/Aishakabeer/todolist/pkg/models"
)

var templateFuncs = template.FuncMap{
	"monthNum": func(m time.Month) int { return int(m) },
}

var pages = parsePages(
	"calendar.html",
	"task_list.html",
	"task_form.html",
	"task_detail.html",
	"task_delete.html",
)

func parsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(templateFuncs).
			ParseFS(web.Templates, "templates/base.html", "templates/"+name))
	}
	return out
}

type Server struct {
	tasks   *tasks.Service
	log     zerolog.Logger
	handler http.Handler

	mu     sync.Mutex
	server *http.Server
}

func NewServer(svc *tasks.Service, logger zerolog.Logger) *Server {
	s := &Server{tasks: svc, log: logger}
	s.handler = s.routes()
	return s
}

// Handler returns the full handler chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.handleCalendar)
	mux.HandleFunc("GET /tasks/{$}", s.handleTaskList)
	mux.HandleFunc("GET /task/add/{$}", s.handleAddForm)
	mux.HandleFunc("POST /task/add/{$}", s.handleAdd)
	mux.HandleFunc("GET /task/{id}/{$}", s.handleDetail)
	mux.HandleFunc("GET /task/{id}/edit/{$}", s.handleEditForm)
	mux.HandleFunc("POST /task/{id}/edit/{$}", s.handleEdit)
	mux.HandleFunc("GET /task/{id}/delete/{$}", s.handleDeleteConfirm)
	mux.HandleFunc("POST /task/{id}/delete/{$}", s.handleDelete)
	mux.HandleFunc("POST /task/{id}/toggle/{$}", s.handleToggle)

	// API endpoints
	mux.HandleFunc("GET /api/calendar", s.handleAPICalendar)

	// Static files
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return s.logRequests(http.NewCrossOriginProtection().Handler(mux))
}

func (s *Server) Start(addr string) error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.log.Info().Str("addr", addr).Msg("web server listening")
	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

type calendarPage struct {
	View  *tasks.MonthView
	Today models.Date
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, month := s.tasks.ParseMonth(q.Get("year"), q.Get("month"))
	view, err := s.tasks.Month(r.Context(), year, month)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "calendar.html", calendarPage{View: view, Today: s.tasks.Today()})
}

type listPage struct {
	Tasks  []*models.Task
	Filter tasks.Filter
}

func (s *Server) handleTaskList(w http.ResponseWriter, r *http.Request) {
	filter := tasks.ParseFilter(r.URL.Query().Get("completed"))
	list, err := s.tasks.List(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "task_list.html", listPage{Tasks: list, Filter: filter})
}

type formPage struct {
	Task           *models.Task // nil when adding
	Form           tasks.Form
	Errors         tasks.FieldErrors
	TitleMaxLength int
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	var form tasks.Form
	if d, err := models.ParseDate(r.URL.Query().Get("date")); err == nil {
		form.DueDate = d.String()
	}
	s.render(w, r, http.StatusOK, "task_form.html", formPage{Form: form, TitleMaxLength: models.TitleMaxLength})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := tasks.FormFromValues(r.PostForm)
	task, err := s.tasks.Create(r.Context(), form)
	var verr *tasks.ValidationError
	switch {
	case errors.As(err, &verr):
		s.render(w, r, http.StatusOK, "task_form.html", formPage{
			Form:           form,
			Errors:         verr.Fields,
			TitleMaxLength: models.TitleMaxLength,
		})
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	s.log.Info().Str("task_id", task.ID).Str("due_date", task.DueDate.String()).Msg("task created")
	http.Redirect(w, r, "/", http.StatusFound)
}

type taskPage struct {
	Task *models.Task
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "task_detail.html", taskPage{Task: task})
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "task_form.html", formPage{
		Task:           task,
		Form:           tasks.FormFromTask(task),
		TitleMaxLength: models.TitleMaxLength,
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := tasks.FormFromValues(r.PostForm)
	task, err := s.tasks.Update(r.Context(), r.PathValue("id"), form)
	var verr *tasks.ValidationError
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.As(err, &verr):
		s.render(w, r, http.StatusOK, "task_form.html", formPage{
			Task:           task,
			Form:           form,
			Errors:         verr.Fields,
			TitleMaxLength: models.TitleMaxLength,
		})
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	s.log.Info().Str("task_id", task.ID).Msg("task updated")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "task_delete.html", taskPage{Task: task})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.tasks.Delete(r.Context(), id)
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	s.log.Info().Str("task_id", id).Msg("task deleted")
	http.Redirect(w, r, "/", http.StatusFound)
}

type toggleResponse struct {
	Success   bool   `json:"success"`
	Completed bool   `json:"completed"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	ajax := r.Header.Get("X-Requested-With") == "XMLHttpRequest"
	task, err := s.tasks.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tasks.ErrNotFound) {
			status = http.StatusNotFound
		} else {
			s.log.Error().Err(err).Str("path", r.URL.Path).Msg("toggle failed")
		}
		if ajax {
			s.writeJSON(w, status, toggleResponse{Error: http.StatusText(status)})
		} else {
			http.Error(w, http.StatusText(status), status)
		}
		return
	}

	s.log.Info().Str("task_id", task.ID).Bool("completed", task.Completed).Msg("task toggled")
	if ajax {
		s.writeJSON(w, http.StatusOK, toggleResponse{Success: true, Completed: task.Completed})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

type calendarResponse struct {
	calendar.MonthGrid
	Weekdays    []string                  `json:"weekdays"`
	TasksByDate map[string][]*models.Task `json:"tasks_by_date"`
}

func (s *Server) handleAPICalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, month := s.tasks.ParseMonth(q.Get("year"), q.Get("month"))
	view, err := s.tasks.Month(r.Context(), year, month)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, calendarResponse{
		MonthGrid:   view.Grid,
		Weekdays:    view.Weekdays,
		TasksByDate: view.TasksByDate,
	})
}

// lookup loads the task named by the {id} path value, answering 404 itself
// when it does not exist.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	task, err := s.tasks.Get(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		http.NotFound(w, r)
		return nil, false
	case err != nil:
		s.serverError(w, r, err)
		return nil, false
	}
	return task, true
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := pages[page]
	if !ok {
		s.serverError(w, r, errors.New("unknown page "+page))
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
