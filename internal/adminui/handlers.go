package adminui

import (
	"encoding/csv"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"SkillSwapwebserver/internal/auth"
	"SkillSwapwebserver/internal/domain"
)

func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := a.adminSvc.Stats(r.Context())
	if err != nil {
		a.logger.Error("adminui: load stats failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to load stats")
		return
	}
	a.templates.renderDashboard(w, http.StatusOK, dashboardViewData{Title: "Admin", Stats: stats})
}

func (a *app) handleLoginGet(w http.ResponseWriter, _ *http.Request) {
	a.templates.renderLogin(w, http.StatusOK, viewData{Title: "Admin Login"})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.templates.renderLogin(w, http.StatusBadRequest, viewData{Title: "Admin Login", Error: "Invalid form"})
		return
	}

	email := normalizeEmail(r.Form.Get("email"))
	password := r.Form.Get("password")
	if !validEmail(email) || password == "" {
		a.templates.renderLogin(w, http.StatusBadRequest, viewData{Title: "Admin Login", Error: "Email and password are required"})
		return
	}

	ip := clientIP(r)
	userAgent := r.UserAgent()

	u, sessID, err := a.authSvc.Login(r.Context(), email, password, ip, userAgent)
	if err != nil {
		a.templates.renderLogin(w, http.StatusUnauthorized, viewData{Title: "Admin Login", Error: "Invalid credentials"})
		return
	}
	if !a.adminEmails[strings.ToLower(u.Email)] {
		a.templates.renderLogin(w, http.StatusForbidden, viewData{Title: "Admin Login", Error: "Not allowed"})
		return
	}

	cookieValue := a.cookieCodec.EncodeSessionID(sessID)
	auth.SetSessionCookie(w, cookieValue, a.sessionTTL, a.cookieSecure)
	http.Redirect(w, r, "/admin/", http.StatusFound)
}

func (a *app) handleLogoutPost(w http.ResponseWriter, r *http.Request) {
	_, sessID, ok := a.currentUser(r)
	if ok {
		_ = a.authSvc.Logout(r.Context(), sessID)
	}
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func (a *app) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.adminSvc.ListUsers(r.Context(), 50, 0)
	if err != nil {
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to load users")
		return
	}
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:       u.ID,
			Email:    u.Email,
			Username: u.Username,
			Type:     userType(u.Email, a.adminEmails),
			Status:   string(u.Status),
			Banned:   u.Status == domain.UserStatusBanned,
			Rating:   formatRating(u),
		})
	}
	a.templates.renderUsers(w, http.StatusOK, usersViewData{Title: "Users", Users: rows})
}

func (a *app) handleUserBan(w http.ResponseWriter, r *http.Request) {
	a.setBanned(w, r, true)
}

func (a *app) handleUserUnban(w http.ResponseWriter, r *http.Request) {
	a.setBanned(w, r, false)
}

func (a *app) setBanned(w http.ResponseWriter, r *http.Request, banned bool) {
	id := r.PathValue("id")
	if err := a.adminSvc.SetUserBanned(r.Context(), id, banned); err != nil {
		a.logger.Error("adminui: set user banned failed", "user_id", id, "banned", banned, "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to update user")
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusFound)
}

func (a *app) handleSwapsList(w http.ResponseWriter, r *http.Request) {
	swaps, err := a.adminSvc.ListSwaps(r.Context(), 50, 0)
	if err != nil {
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to load swaps")
		return
	}
	rows := make([]swapRow, 0, len(swaps))
	for _, s := range swaps {
		rows = append(rows, swapRow{
			ID:        s.ID,
			FromUser:  s.FromUser,
			ToUser:    s.ToUser,
			Status:    string(s.Status),
			CreatedAt: s.CreatedAt,
		})
	}
	a.templates.renderSwaps(w, http.StatusOK, swapsViewData{Title: "Swaps", Swaps: rows})
}

func (a *app) handleSwapDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.adminSvc.DeleteSwap(r.Context(), id); err != nil {
		a.logger.Error("adminui: delete swap failed", "swap_id", id, "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to delete swap")
		return
	}
	http.Redirect(w, r, "/admin/swaps", http.StatusFound)
}

// handleUsersExport streams the user list as CSV for offline reporting.
func (a *app) handleUsersExport(w http.ResponseWriter, r *http.Request) {
	users, err := a.adminSvc.ListUsers(r.Context(), 200, 0)
	if err != nil {
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to load users")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="users.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "username", "email", "status", "rating_count", "rating_average", "created_at"})
	for _, u := range users {
		avg := ""
		if v, ok := u.AverageRating(); ok {
			avg = strconv.FormatFloat(v, 'f', 2, 64)
		}
		_ = cw.Write([]string{
			u.ID,
			u.Username,
			u.Email,
			string(u.Status),
			strconv.FormatInt(u.RatingCount, 10),
			avg,
			u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	cw.Flush()
}

func (a *app) handleSwapsExport(w http.ResponseWriter, r *http.Request) {
	swaps, err := a.adminSvc.ListSwaps(r.Context(), 200, 0)
	if err != nil {
		a.templates.renderError(w, http.StatusInternalServerError, "Error", "Failed to load swaps")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="swaps.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "from_user", "to_user", "status", "version", "created_at"})
	for _, s := range swaps {
		_ = cw.Write([]string{
			s.ID,
			s.FromUser,
			s.ToUser,
			string(s.Status),
			strconv.FormatInt(s.Version, 10),
			s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	cw.Flush()
}

func formatRating(u domain.User) string {
	avg, ok := u.AverageRating()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", avg, u.RatingCount)
}

// minimal duplicate of httpapi.clientIP to avoid import cycles.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
