package server

import (
	"html/template"
	"net/http"
)

// indexData holds the template data for the landing and dashboard pages.
type indexData struct {
	Name  string
	Email string
}

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Sign in — Folio</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#0f1117;color:#e1e4e8;min-height:100vh;display:flex;align-items:center;justify-content:center}
.card{background:#161b22;border:1px solid #30363d;border-radius:12px;padding:2rem;width:100%;max-width:400px;text-align:center}
h1{font-size:1.5rem;margin-bottom:.5rem;color:#f0f6fc}
p.desc{color:#8b949e;margin-bottom:1.5rem;font-size:.9rem}
a.signin{display:inline-block;padding:.6rem 1.5rem;background:#238636;color:#fff;border-radius:6px;text-decoration:none;font-size:.9rem;font-weight:500}
a.signin:hover{background:#2ea043}
</style>
</head>
<body>
<div class="card">
<h1>Folio</h1>
<p class="desc">Rank the market, build an equal-weight portfolio, project its growth.</p>
<a class="signin" href="/login">Sign in with Google</a>
</div>
</body>
</html>`))

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Dashboard — Folio</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:-apple-system,BlinkMacSystemFont,"Segoe UI",Roboto,sans-serif;background:#0f1117;color:#e1e4e8;padding:2rem}
header{display:flex;justify-content:space-between;align-items:center;margin-bottom:2rem}
h1{font-size:1.5rem;color:#f0f6fc}
.who{color:#8b949e;font-size:.9rem}
.who a{color:#58a6ff;text-decoration:none;margin-left:.75rem}
section{background:#161b22;border:1px solid #30363d;border-radius:12px;padding:1.5rem;margin-bottom:1.5rem}
h2{font-size:1.1rem;margin-bottom:.75rem;color:#f0f6fc}
button{padding:.5rem 1.25rem;background:#238636;color:#fff;border:none;border-radius:6px;font-size:.9rem;cursor:pointer}
button:hover{background:#2ea043}
pre{background:#0d1117;border:1px solid #30363d;border-radius:6px;padding:.75rem;margin-top:.75rem;font-size:.8rem;overflow-x:auto;min-height:2rem}
input{padding:.45rem .6rem;background:#0d1117;border:1px solid #30363d;border-radius:6px;color:#e1e4e8;font-size:.9rem;margin-right:.5rem}
</style>
</head>
<body>
<header>
<h1>Folio</h1>
<div class="who">{{.Name}} ({{.Email}})<a href="/logout">Sign out</a></div>
</header>
<section>
<h2>Analyze</h2>
<button onclick="runAnalyze()">Rank universe</button>
<pre id="analyze-out"></pre>
</section>
<section>
<h2>Portfolio</h2>
<input id="amount" type="number" value="10000" min="1"> 
<button onclick="buildPortfolio()">Build from last analysis</button>
<pre id="portfolio-out"></pre>
</section>
<section>
<h2>Growth projection</h2>
<input id="symbol" type="text" value="AAPL">
<input id="months" type="number" value="6" min="1">
<button onclick="project()">Project</button>
<pre id="projection-out"></pre>
</section>
<script>
let lastStocks = [];
async function post(path, body) {
  const resp = await fetch(path, {method:'POST', headers:{'Content-Type':'application/json'}, body: JSON.stringify(body||{})});
  return resp.json();
}
async function runAnalyze() {
  const data = await post('/analyze');
  if (data.success) { lastStocks = data.stocks; }
  document.getElementById('analyze-out').textContent = JSON.stringify(data, null, 2);
}
async function buildPortfolio() {
  const amount = parseFloat(document.getElementById('amount').value);
  const selected = lastStocks.map(s => ({symbol:s.symbol, current_price:s.current_price, company_name:s.company_name}));
  const data = await post('/create_portfolio', {selected_stocks:selected, portfolio_amount:amount});
  document.getElementById('portfolio-out').textContent = JSON.stringify(data, null, 2);
}
async function project() {
  const data = await post('/growth_projection', {
    symbol: document.getElementById('symbol').value,
    months: parseInt(document.getElementById('months').value, 10)
  });
  document.getElementById('projection-out').textContent = JSON.stringify(data, null, 2);
}
</script>
</body>
</html>`))

// handleIndex handles GET / - dashboard for a signed-in user, otherwise the
// sign-in page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if uc := s.authenticate(r); uc != nil {
		if err := dashboardTemplate.Execute(w, indexData{Name: uc.Name, Email: uc.Email}); err != nil {
			s.logger.Error().Err(err).Msg("Dashboard render failed")
		}
		return
	}

	if err := loginTemplate.Execute(w, indexData{}); err != nil {
		s.logger.Error().Err(err).Msg("Login page render failed")
	}
}
