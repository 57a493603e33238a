package server

import "html/template"

// dashboardTemplate is the single-page dashboard shell. It fetches the
// metric and series from the JSON API and draws the chart client-side.
var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>US National Debt Tracker</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.3/dist/chart.umd.min.js"></script>
<style>
  body { background: #0e1117; color: #fafafa; font-family: system-ui, sans-serif; margin: 0; padding: 2rem; }
  h1 { font-weight: 600; }
  .muted { color: #8b949e; font-size: 0.85rem; }
  .metric { margin: 1.5rem 0; }
  .metric .value { font-size: 2.4rem; font-weight: 700; }
  .delta-up { color: #ff4b4b; }
  .delta-down { color: #21c354; }
  .card { background: #161b22; border-radius: 8px; padding: 1.25rem; margin-bottom: 1.5rem; }
  table { border-collapse: collapse; width: 100%; font-variant-numeric: tabular-nums; }
  th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #21262d; }
  td:last-child, th:last-child { text-align: right; }
  details summary { cursor: pointer; margin-bottom: 0.75rem; }
  #error { color: #ff4b4b; display: none; }
</style>
</head>
<body>
<h1>🇺🇸 US National Debt Tracker</h1>
<p class="muted">Tracking the Total Public Debt Outstanding of the United States.</p>
<p id="error"></p>

<div class="card metric">
  <div class="muted">Total Public Debt</div>
  <div class="value" id="current">—</div>
  <div id="delta" class="muted"></div>
  <div class="muted" id="asof"></div>
</div>

<div class="card">
  <h3>1-Year Debt Trend</h3>
  <canvas id="chart" height="90"></canvas>
</div>

<div class="card">
  <details>
    <summary>View Raw Data</summary>
    <table id="raw">
      <thead><tr><th>Date</th><th>Total Debt ($)</th></tr></thead>
      <tbody></tbody>
    </table>
  </details>
</div>

<p class="muted">Data Source: U.S. Treasury Fiscal Data API</p>

<script>
const days = {{.WindowDays}};

function fail(msg) {
  const el = document.getElementById("error");
  el.textContent = msg;
  el.style.display = "block";
}

fetch("/api/v1/debt/latest?days=" + days)
  .then(r => r.json().then(body => { if (!r.ok) throw new Error(body.error || r.statusText); return body; }))
  .then(m => {
    document.getElementById("current").textContent = m.current_formatted;
    document.getElementById("asof").textContent = "Last Updated: " + m.current_date;
    if (m.delta_formatted) {
      const d = document.getElementById("delta");
      d.textContent = m.delta_formatted + " vs " + m.previous_date;
      d.className = m.delta_unfavorable ? "delta-up" : "delta-down";
    }
  })
  .catch(e => fail("Error fetching data from Treasury API: " + e.message));

fetch("/api/v1/debt/series?days=" + days)
  .then(r => r.json().then(body => { if (!r.ok) throw new Error(body.error || r.statusText); return body; }))
  .then(s => {
    const labels = s.observations.map(o => o.date);
    const values = s.observations.map(o => parseFloat(o.total_debt));
    new Chart(document.getElementById("chart"), {
      type: "line",
      data: { labels: labels, datasets: [{ data: values, borderColor: "#FF4B4B", borderWidth: 3, pointRadius: 0, tension: 0.1 }] },
      options: {
        plugins: { legend: { display: false }, tooltip: { mode: "index", intersect: false } },
        scales: {
          x: { ticks: { color: "#8b949e", maxTicksLimit: 12 }, grid: { display: false } },
          y: { ticks: { color: "#8b949e" }, grid: { color: "#21262d" } }
        }
      }
    });
    const tbody = document.querySelector("#raw tbody");
    for (let i = s.observations.length - 1; i >= 0; i--) {
      const o = s.observations[i];
      const tr = document.createElement("tr");
      tr.innerHTML = "<td>" + o.date + "</td><td>" +
        Number(o.total_debt).toLocaleString("en-US", {minimumFractionDigits: 2}) + "</td>";
      tbody.appendChild(tr);
    }
  })
  .catch(e => fail("Error fetching data from Treasury API: " + e.message));
</script>
</body>
</html>
`))
