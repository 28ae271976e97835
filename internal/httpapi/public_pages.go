package httpapi

import (
	"html/template"
	"net/http"
)

var publicPageT = template.Must(template.New("public").Parse(publicLayout))

type publicPageData struct {
	Title string
	Body  template.HTML
}

func (a *api) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderPublicPage(w, http.StatusOK, "SkillSwap", publicHomeBody)
}

func renderPublicPage(w http.ResponseWriter, status int, title string, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = publicPageT.Execute(w, publicPageData{
		Title: title,
		Body:  body,
	})
}

const publicLayout = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width,initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
      :root{
        --bg:#0b1016;
        --ink:#f1f5f9;
        --muted:#a7b7c7;
        --accent:#14b8a6;
        --accent-2:#0ea5e9;
        --card:rgba(15,28,42,0.85);
        --line:rgba(148,163,184,0.25);
        color-scheme:dark;
      }
      *{box-sizing:border-box}
      body{
        margin:0;
        font-family:"Helvetica Neue",Arial,sans-serif;
        color:var(--ink);
        background:var(--bg);
        min-height:100vh;
      }
      header{
        display:flex;
        align-items:center;
        justify-content:space-between;
        gap:16px;
        padding:24px clamp(20px,4vw,64px);
      }
      .logo{
        display:flex;
        align-items:center;
        gap:14px;
        text-decoration:none;
        color:inherit;
      }
      .logo-mark{
        width:46px;
        height:46px;
        border-radius:14px;
        display:flex;
        align-items:center;
        justify-content:center;
        font-weight:700;
        color:white;
        background:linear-gradient(135deg,var(--accent),var(--accent-2));
      }
      .logo-title{font-weight:700;font-size:18px}
      .logo-sub{font-size:12px;color:var(--muted)}
      main{
        max-width:1120px;
        margin:0 auto;
        padding:0 clamp(20px,4vw,64px) 80px;
      }
      h1,h2{margin:0 0 12px}
      .lead{color:var(--muted);line-height:1.6;margin:0 0 16px}
      .card{
        background:var(--card);
        border:1px solid var(--line);
        border-radius:18px;
        padding:18px;
      }
      .grid{
        display:grid;
        grid-template-columns:repeat(auto-fit,minmax(220px,1fr));
        gap:16px;
        margin-top:24px;
      }
      footer{
        margin-top:36px;
        padding-top:18px;
        border-top:1px solid var(--line);
        color:var(--muted);
        font-size:13px;
      }
    </style>
  </head>
  <body>
    <header>
      <a class="logo" href="/">
        <span class="logo-mark">SW</span>
        <span>
          <div class="logo-title">SkillSwap</div>
          <div class="logo-sub">Trade what you know for what you want to learn</div>
        </span>
      </a>
    </header>
    <main>
      {{.Body}}
      <footer>
        <div>Copyright 2026 SkillSwap.</div>
      </footer>
    </main>
  </body>
</html>`

var publicHomeBody = template.HTML(`
<section>
  <h1>Swap skills with people near you.</h1>
  <p class="lead">List the skills you can teach and the ones you want to pick up, find a match, and agree on a swap. After a completed swap both sides rate each other, so good teachers stand out.</p>
  <div class="grid">
    <div class="card">
      <h2>Offer and wanted lists</h2>
      <p class="lead">Your profile carries two lists: skills you offer and skills you want. Discovery matches on both.</p>
    </div>
    <div class="card">
      <h2>Swap requests</h2>
      <p class="lead">Send a request, the other side accepts or rejects, and either party can mark an agreed swap complete.</p>
    </div>
    <div class="card">
      <h2>Ratings</h2>
      <p class="lead">One rating per participant per completed swap, folded into a public average on your profile.</p>
    </div>
  </div>
</section>
`)
