package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"SkillSwapwebserver/internal/auth"
	"SkillSwapwebserver/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

	Auth         *service.AuthService
	Users        *service.UsersService
	Swaps        *service.SwapsService
	Ratings      *service.RatingsService
	CookieCodec  auth.CookieCodec
	CookieSecure bool
	SessionTTL   time.Duration
	AdminEmails  []string
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	adminSet := make(map[string]bool, len(opts.AdminEmails))
	for _, e := range opts.AdminEmails {
		e = strings.TrimSpace(strings.ToLower(e))
		if e != "" {
			adminSet[e] = true
		}
	}

	api := &api{
		logger:       logger,
		isProd:       opts.IsProd,
		dbPing:       opts.DBPing,
		authSvc:      opts.Auth,
		usersSvc:     opts.Users,
		swapsSvc:     opts.Swaps,
		ratingsSvc:   opts.Ratings,
		cookieCodec:  opts.CookieCodec,
		cookieSecure: opts.CookieSecure,
		sessionTTL:   opts.SessionTTL,
		adminEmails:  adminSet,
		loginLimiter: newLoginLimiter(),
	}

	publicMux := http.NewServeMux()
	apiMux := http.NewServeMux()

	publicMux.HandleFunc("GET /", api.handleHome)
	publicMux.HandleFunc("GET /healthz", api.handleHealthz)

	if api.authSvc == nil {
		apiMux.HandleFunc("POST /v1/auth/register", handleNotImplemented)
		apiMux.HandleFunc("POST /v1/auth/login", handleNotImplemented)
		apiMux.HandleFunc("POST /v1/auth/logout", handleNotImplemented)
		apiMux.HandleFunc("GET /v1/users/me", handleNotImplemented)
	} else {
		apiMux.HandleFunc("POST /v1/auth/register", api.handleAuthRegister)
		apiMux.HandleFunc("POST /v1/auth/login", api.handleAuthLogin)
		apiMux.HandleFunc("POST /v1/auth/logout", api.requireAuth(api.handleAuthLogout))
		apiMux.HandleFunc("GET /v1/users/me", api.requireAuth(api.handleUsersMe))

		if api.usersSvc != nil {
			apiMux.HandleFunc("PATCH /v1/users/me", api.requireAuth(api.handleUsersMeUpdate))
			apiMux.HandleFunc("POST /v1/users/me/skills", api.requireAuth(api.handleSkillsAdd))
			apiMux.HandleFunc("DELETE /v1/users/me/skills", api.requireAuth(api.handleSkillsRemove))
			apiMux.HandleFunc("GET /v1/users/discover", api.requireAuth(api.handleUsersDiscover))
		}

		if api.ratingsSvc != nil {
			apiMux.HandleFunc("GET /v1/users/{id}/reputation", api.requireAuth(api.handleUserReputation))
		}

		if api.swapsSvc != nil {
			apiMux.HandleFunc("POST /v1/swaps", api.requireAuth(api.handleSwapsCreate))
			apiMux.HandleFunc("GET /v1/swaps", api.requireAuth(api.handleSwapsList))
			apiMux.HandleFunc("GET /v1/swaps/{id}", api.requireAuth(api.handleSwapsGet))
			apiMux.HandleFunc("POST /v1/swaps/{id}/accept", api.requireAuth(api.handleSwapAction))
			apiMux.HandleFunc("POST /v1/swaps/{id}/reject", api.requireAuth(api.handleSwapAction))
			apiMux.HandleFunc("POST /v1/swaps/{id}/cancel", api.requireAuth(api.handleSwapAction))
			apiMux.HandleFunc("POST /v1/swaps/{id}/complete", api.requireAuth(api.handleSwapAction))
		}

		if api.ratingsSvc != nil && api.swapsSvc != nil {
			apiMux.HandleFunc("POST /v1/swaps/{id}/ratings", api.requireAuth(api.handleRatingsSubmit))
			apiMux.HandleFunc("GET /v1/swaps/{id}/ratings", api.requireAuth(api.handleRatingsList))
		}
	}

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := apiMux.Handler(r)
		if pattern == "" {
			handleV1NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") || r.URL.Path == "/v1" {
			apiHandler.ServeHTTP(w, r)
			return
		}
		publicMux.ServeHTTP(w, r)
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotImplemented, "not_implemented", "not implemented")
}

func handleV1NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc      *service.AuthService
	usersSvc     *service.UsersService
	swapsSvc     *service.SwapsService
	ratingsSvc   *service.RatingsService
	cookieCodec  auth.CookieCodec
	cookieSecure bool
	sessionTTL   time.Duration
	adminEmails  map[string]bool

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
