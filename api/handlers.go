package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"meeting-scheduler/apperr"
	"meeting-scheduler/availability"
	"meeting-scheduler/calendar"
	"meeting-scheduler/meeting"
	"meeting-scheduler/metrics"
	"meeting-scheduler/slot"
	"meeting-scheduler/user"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Options tunes the HTTP layer. Zero values fall back to permissive defaults.
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	SearchLimit    int
	// Metrics is created when nil.
	Metrics *metrics.Metrics
}

type API struct {
	root    *mux.Router
	router  *mux.Router
	db      *sql.DB
	now     func() time.Time
	logger  *slog.Logger
	limiter *RateLimiter
	origins []string
	metrics *metrics.Metrics

	searchLimit  int
	users        *user.Accessor
	calendars    *calendar.Accessor
	slots        *slot.Accessor
	availability *availability.Accessor
	meetings     *meeting.Accessor
}

func NewAPI(db *sql.DB, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	searchLimit := opts.SearchLimit
	if searchLimit <= 0 || searchLimit > user.MaxSearchResults {
		searchLimit = user.MaxSearchResults
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	users := user.NewAccessor(db)
	calendars := calendar.NewAccessor(db, users)
	slots := slot.NewAccessor(db, slot.WithCreatedCounter(m.SlotsCreated))

	root := mux.NewRouter()
	a := &API{
		root:         root,
		router:       root.PathPrefix("/api").Subrouter(),
		db:           db,
		now:          time.Now,
		logger:       logger,
		origins:      opts.AllowedOrigins,
		metrics:      m,
		searchLimit:  searchLimit,
		users:        users,
		calendars:    calendars,
		slots:        slots,
		availability: availability.NewAccessor(calendars, slots),
		meetings:     meeting.NewAccessor(db, users, slots, logger, meeting.WithScheduledCounter(m.MeetingsScheduled)),
	}
	if opts.RateLimitRPS > 0 {
		a.limiter = NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
		a.router.Use(a.limiter.Middleware)
	}
	return a
}

// Router exposes the bare mux, without access logging or CORS.
func (a *API) Router() *mux.Router {
	return a.root
}

// Limiter is nil when rate limiting is disabled.
func (a *API) Limiter() *RateLimiter {
	return a.limiter
}

func (a *API) Handler() http.Handler {
	var h http.Handler = a.root
	if len(a.origins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(a.origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(h)
	}
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{a.logger}))(h)
	// Use Gorilla's built-in logging handler
	return handlers.LoggingHandler(os.Stdout, h)
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	if err := writeResponse(w, status, data); err != nil {
		a.logger.Error("encode response", "error", err)
	}
}

// writeResponse renders the JSON envelope shared by handlers and middleware.
func writeResponse(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
}

// Error maps the error taxonomy onto HTTP statuses. Internal details never reach the client.
func (a *API) Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		a.Response(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		a.Response(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		a.Response(w, http.StatusConflict, err.Error())
	default:
		a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		a.Response(w, http.StatusInternalServerError, "internal server error")
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)
	a.router.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	a.router.HandleFunc("/users/search", a.searchUsers).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}/calendars", a.getUserCalendars).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}/availability", a.getAvailability).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}/meetings", a.getUserMeetings).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}/meetings.ics", a.exportUserMeetings).Methods(http.MethodGet)

	a.router.HandleFunc("/calendars", a.createCalendar).Methods(http.MethodPost)
	a.router.HandleFunc("/calendars/{id}", a.getCalendar).Methods(http.MethodGet)
	a.router.HandleFunc("/calendars/{id}/slots", a.createSlot).Methods(http.MethodPost)
	a.router.HandleFunc("/calendars/{id}/slots", a.getSlots).Methods(http.MethodGet)

	a.router.HandleFunc("/slots/{id}", a.getSlot).Methods(http.MethodGet)
	a.router.HandleFunc("/slots/{id}", a.updateSlot).Methods(http.MethodPut)
	a.router.HandleFunc("/slots/{id}", a.deleteSlot).Methods(http.MethodDelete)

	a.router.HandleFunc("/meetings", a.scheduleMeeting).Methods(http.MethodPost)
	a.router.HandleFunc("/meetings/{id}", a.getMeeting).Methods(http.MethodGet)
}

type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered", "panic", v)
}
