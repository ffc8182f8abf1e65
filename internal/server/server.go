package server

import (
	"io"
	"net/http"
	"strconv"

	"college_api/internal/apperr"
	"college_api/internal/config"
	"college_api/internal/db"
	"college_api/internal/metrics"
	"college_api/internal/models"

	"github.com/gorilla/mux"
)

const (
	appName      = "KAIT20 College API"
	defaultLimit = 20
	maxBodyBytes = 1 << 20
)

// Server хранит зависимости HTTP-обработчиков: хранилище и конфигурацию.
type Server struct {
	store db.Store
	cfg   *config.Config
}

// NewServer создаёт новый экземпляр Server; store может быть nil, если база не настроена.
func NewServer(store db.Store, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Server{store: store, cfg: cfg}
}

// Routes собирает маршрутизатор вместе с CORS и middleware.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware)

	r.Handle("/", handlerFuncE(s.Root)).Methods(http.MethodGet)
	r.Handle("/api/hello", handlerFuncE(s.Hello)).Methods(http.MethodGet)
	r.Handle("/schema", handlerFuncE(s.Schema)).Methods(http.MethodGet)

	r.Handle("/api/news", handlerFuncE(s.CreateNews)).Methods(http.MethodPost)
	r.Handle("/api/news", handlerFuncE(s.ListNews)).Methods(http.MethodGet)
	r.Handle("/api/events", handlerFuncE(s.CreateEvent)).Methods(http.MethodPost)
	r.Handle("/api/events", handlerFuncE(s.ListEvents)).Methods(http.MethodGet)

	r.Handle("/test", handlerFuncE(s.TestDatabase)).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = RequestIDMiddleware(LoggingMiddleware(handlerFuncE(notFound)))
	r.MethodNotAllowedHandler = RequestIDMiddleware(LoggingMiddleware(handlerFuncE(methodNotAllowed)))

	return corsHandler(r)
}

// Root отвечает именем сервиса и статусом.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"name": appName, "status": "ok"})
}

// Hello возвращает статическое приветствие.
func (s *Server) Hello(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to KAIT20 backend!"})
}

// Schema описывает коллекции и модели для клиентов.
func (s *Server) Schema(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string][]models.CollectionInfo{
		"collections": models.Collections(),
	})
}

type createdResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateNews проверяет тело запроса по схеме News и сохраняет новость.
func (s *Server) CreateNews(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	news, err := models.DecodeNews(body)
	if err != nil {
		return err
	}
	return s.insert(w, r, news)
}

// CreateEvent проверяет тело запроса по схеме Event и сохраняет мероприятие.
func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	event, err := models.DecodeEvent(body)
	if err != nil {
		return err
	}
	return s.insert(w, r, event)
}

func (s *Server) insert(w http.ResponseWriter, r *http.Request, rec models.Record) error {
	id, err := db.Insert(r.Context(), s.store, rec)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, createdResponse{ID: id, Status: "created"})
}

// ListNews возвращает JSON-массив последних limit новостей, начиная с самых новых.
func (s *Server) ListNews(w http.ResponseWriter, r *http.Request) error {
	limit, err := parseLimit(r)
	if err != nil {
		return err
	}
	docs, err := db.ListRecent[models.News](r.Context(), s.store, limit)
	if err != nil {
		return err
	}

	out := make([]newsView, 0, len(docs))
	for _, d := range docs {
		out = append(out, newNewsView(d))
	}
	return writeJSON(w, http.StatusOK, out)
}

// ListEvents возвращает JSON-массив последних limit мероприятий, начиная с самых новых.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) error {
	limit, err := parseLimit(r)
	if err != nil {
		return err
	}
	docs, err := db.ListRecent[models.Event](r.Context(), s.store, limit)
	if err != nil {
		return err
	}

	out := make([]eventView, 0, len(docs))
	for _, d := range docs {
		out = append(out, newEventView(d))
	}
	return writeJSON(w, http.StatusOK, out)
}

// parseLimit извлекает limit из строки запроса; по умолчанию 20.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperr.Validation(apperr.Detail{Field: "limit", Error: "must be a non-negative integer"})
	}
	return limit, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperr.E(http.StatusRequestEntityTooLarge, "request body too large")
	}
	return body, nil
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return apperr.E(http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) error {
	return apperr.E(http.StatusMethodNotAllowed, "method not allowed")
}
