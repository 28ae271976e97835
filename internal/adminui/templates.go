package adminui

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"SkillSwapwebserver/internal/service"
)

type templates struct {
	login     *template.Template
	dashboard *template.Template
	users     *template.Template
	swaps     *template.Template
	errorT    *template.Template
}

type viewData struct {
	Title string
	Error string
}

type dashboardViewData struct {
	Title string
	Stats service.AdminStats
}

type usersViewData struct {
	Title string
	Users []userRow
}

type userRow struct {
	ID       string
	Email    string
	Username string
	Type     string
	Status   string
	Banned   bool
	Rating   string
}

type swapsViewData struct {
	Title string
	Swaps []swapRow
}

type swapRow struct {
	ID        string
	FromUser  string
	ToUser    string
	Status    string
	CreatedAt time.Time
}

func parseTemplates() (*templates, error) {
	parse := func(name, body string) (*template.Template, error) {
		t, err := template.New("layout").Parse(layoutTmpl)
		if err != nil {
			return nil, err
		}
		return t.New(name).Parse(body)
	}

	login, err := template.New("login").Parse(loginTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	dashboard, err := parse("dashboard", dashboardTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}
	users, err := parse("users", usersTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse users: %w", err)
	}
	swaps, err := parse("swaps", swapsTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse swaps: %w", err)
	}
	errorT, err := template.New("error").Parse(errorTmpl)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &templates{login: login, dashboard: dashboard, users: users, swaps: swaps, errorT: errorT}, nil
}

func render(w http.ResponseWriter, status int, t *template.Template, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, name, data)
}

func (t *templates) renderLogin(w http.ResponseWriter, status int, data any) {
	render(w, status, t.login, "login", data)
}

func (t *templates) renderDashboard(w http.ResponseWriter, status int, data any) {
	render(w, status, t.dashboard, "dashboard", data)
}

func (t *templates) renderUsers(w http.ResponseWriter, status int, data any) {
	render(w, status, t.users, "users", data)
}

func (t *templates) renderSwaps(w http.ResponseWriter, status int, data any) {
	render(w, status, t.swaps, "swaps", data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, title, msg string) {
	render(w, status, t.errorT, "error", viewData{Title: title, Error: msg})
}

const layoutTmpl = `{{define "head"}}<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}} - SkillSwap Admin</title>
  <style>
    body{font-family:Arial,sans-serif;margin:0;background:#f4f6f8;color:#1f2933}
    nav{background:#102a43;color:#fff;padding:12px 24px;display:flex;gap:18px;align-items:center}
    nav a{color:#d9e2ec;text-decoration:none;font-weight:600}
    nav form{margin-left:auto}
    main{max-width:960px;margin:24px auto;padding:0 16px}
    table{width:100%;border-collapse:collapse;background:#fff}
    th,td{padding:8px 12px;border-bottom:1px solid #d9e2ec;text-align:left;font-size:14px}
    th{background:#f0f4f8}
    .cards{display:flex;gap:16px;flex-wrap:wrap}
    .card{background:#fff;border:1px solid #d9e2ec;border-radius:8px;padding:16px;min-width:160px}
    .card h3{margin:0 0 8px;font-size:13px;color:#627d98;text-transform:uppercase}
    .card p{margin:0;font-size:24px;font-weight:700}
    button{padding:4px 10px;border:1px solid #829ab1;border-radius:4px;background:#fff;cursor:pointer}
    button.danger{border-color:#ba2525;color:#ba2525}
  </style>
</head>
<body>
<nav>
  <a href="/admin/">Dashboard</a>
  <a href="/admin/users">Users</a>
  <a href="/admin/swaps">Swaps</a>
  <a href="/admin/export/users.csv">Users CSV</a>
  <a href="/admin/export/swaps.csv">Swaps CSV</a>
  <form method="post" action="/admin/logout"><button>Log out</button></form>
</nav>
<main>{{end}}
{{define "foot"}}</main>
</body>
</html>{{end}}`

const loginTmpl = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    body{font-family:Arial,sans-serif;background:#f4f6f8;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0}
    form{background:#fff;border:1px solid #d9e2ec;border-radius:8px;padding:24px;width:320px}
    label{display:block;margin:12px 0 4px;font-size:13px;color:#486581}
    input{width:100%;padding:8px;border:1px solid #9fb3c8;border-radius:4px;box-sizing:border-box}
    button{margin-top:16px;width:100%;padding:10px;background:#102a43;color:#fff;border:0;border-radius:4px;cursor:pointer}
    .error{color:#ba2525;font-size:13px;margin-top:8px}
  </style>
</head>
<body>
  <form method="post" action="/admin/login">
    <h2>SkillSwap Admin</h2>
    {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
    <label for="email">Email</label>
    <input id="email" name="email" type="email" autocomplete="username" />
    <label for="password">Password</label>
    <input id="password" name="password" type="password" autocomplete="current-password" />
    <button type="submit">Sign in</button>
  </form>
</body>
</html>`

const dashboardTmpl = `{{template "head" .}}
<h1>{{.Title}}</h1>
<div class="cards">
  <div class="card"><h3>Users</h3><p>{{.Stats.TotalUsers}}</p></div>
  <div class="card"><h3>Ratings</h3><p>{{.Stats.TotalRatings}}</p></div>
  {{range $status, $count := .Stats.SwapCounts}}
  <div class="card"><h3>Swaps {{$status}}</h3><p>{{$count}}</p></div>
  {{end}}
</div>
{{template "foot"}}`

const usersTmpl = `{{template "head" .}}
<h1>{{.Title}}</h1>
<table>
  <tr><th>Username</th><th>Email</th><th>Type</th><th>Status</th><th>Rating</th><th></th></tr>
  {{range .Users}}
  <tr>
    <td>{{.Username}}</td>
    <td>{{.Email}}</td>
    <td>{{.Type}}</td>
    <td>{{.Status}}</td>
    <td>{{.Rating}}</td>
    <td>
      {{if .Banned}}
      <form method="post" action="/admin/users/{{.ID}}/unban"><button>Unban</button></form>
      {{else}}
      <form method="post" action="/admin/users/{{.ID}}/ban"><button class="danger">Ban</button></form>
      {{end}}
    </td>
  </tr>
  {{end}}
</table>
{{template "foot"}}`

const swapsTmpl = `{{template "head" .}}
<h1>{{.Title}}</h1>
<table>
  <tr><th>ID</th><th>From</th><th>To</th><th>Status</th><th>Created</th><th></th></tr>
  {{range .Swaps}}
  <tr>
    <td>{{.ID}}</td>
    <td>{{.FromUser}}</td>
    <td>{{.ToUser}}</td>
    <td>{{.Status}}</td>
    <td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
    <td><form method="post" action="/admin/swaps/{{.ID}}/delete"><button class="danger">Delete</button></form></td>
  </tr>
  {{end}}
</table>
{{template "foot"}}`

const errorTmpl = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8" /><title>{{.Title}}</title></head>
<body style="font-family:Arial,sans-serif;padding:40px">
  <h1>{{.Title}}</h1>
  <p>{{.Error}}</p>
  <p><a href="/admin/">Back to admin</a></p>
</body>
</html>`
