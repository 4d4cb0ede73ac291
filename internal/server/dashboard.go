package server

import "net/http"

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Server Status</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  :root {
    --bg: #0a0c0a; --surface: #161a16; --surface-hover: #1f251f;
    --border: rgba(34,197,94,0.12); --border-strong: rgba(34,197,94,0.25);
    --text: #fafaf9; --text-dim: #a8a29e; --text-muted: #57534e;
    --green: #22c55e; --green-dim: rgba(34,197,94,0.15); --green-dimmer: rgba(34,197,94,0.06);
    --red: #ef4444; --amber: #f59e0b;
  }
  body {
    font-family: -apple-system, 'SF Pro Display', 'Segoe UI', system-ui, sans-serif;
    background: var(--bg); color: var(--text);
    min-height: 100vh; padding: 40px 24px;
  }
  .container { max-width: 760px; margin: 0 auto; }

  /* Header */
  .header {
    display: flex; align-items: center; gap: 16px;
    margin-bottom: 32px; padding-bottom: 24px;
    border-bottom: 1px solid var(--border);
  }
  .header-text h1 { font-size: 26px; font-weight: 800; letter-spacing: -0.5px; }
  .header-text .subtitle {
    font-size: 12px; color: var(--text-muted); margin-top: 2px;
    font-family: 'SF Mono', 'Menlo', monospace; letter-spacing: 0.5px;
  }
  .header .spacer { flex: 1; }
  .status-pill {
    display: flex; align-items: center; gap: 8px;
    font-size: 12px; font-weight: 600; color: var(--green);
    background: rgba(34,197,94,0.08); padding: 6px 14px;
    border-radius: 20px; border: 1px solid rgba(34,197,94,0.15);
  }
  .status-pill.offline { color: var(--red); background: rgba(239,68,68,0.08); border-color: rgba(239,68,68,0.15); }
  .status-pill.loading { color: var(--amber); background: rgba(245,158,11,0.08); border-color: rgba(245,158,11,0.15); }
  .status-pill .dot { width: 8px; height: 8px; border-radius: 50%; background: currentColor; position: relative; }
  .status-pill .dot::before {
    content: ''; position: absolute; inset: -3px;
    border-radius: 50%; background: currentColor; opacity: 0.3;
    animation: ping 1.5s cubic-bezier(0,0,0.2,1) infinite;
  }
  @keyframes ping { 75%, 100% { transform: scale(2.5); opacity: 0; } }

  /* Stats Grid */
  .stats-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; margin-bottom: 16px; }
  .stat-card {
    background: var(--surface); border: 1px solid var(--border);
    border-radius: 20px; padding: 24px;
  }
  .stat-card.full { grid-column: 1 / -1; }
  .stat-label {
    font-size: 11px; font-weight: 600; letter-spacing: 1.5px; text-transform: uppercase;
    color: var(--text-muted); margin-bottom: 12px;
  }
  .stat-value { font-size: 32px; font-weight: 800; font-variant-numeric: tabular-nums; letter-spacing: -1px; line-height: 1; }
  .stat-value.small { font-size: 18px; letter-spacing: 0; }
  .stat-sub { font-size: 12px; color: var(--text-dim); margin-top: 6px; font-family: 'SF Mono', 'Menlo', monospace; white-space: pre-line; }

  /* Message block */
  .message { border-radius: 20px; padding: 24px; margin-bottom: 16px; border: 1px solid var(--border-strong); background: var(--green-dimmer); }
  .message.warn { border-color: rgba(239,68,68,0.25); background: rgba(239,68,68,0.05); }
  .message h2 { font-size: 18px; margin-bottom: 8px; }
  .message p { font-size: 14px; color: var(--text-dim); margin-top: 4px; }

  /* Addresses */
  .addr {
    font-size: 15px; font-weight: 600; color: var(--green);
    font-family: 'SF Mono', 'Menlo', monospace; cursor: pointer;
    padding: 12px 16px; background: var(--green-dimmer);
    border: 1px solid var(--border); border-radius: 12px; display: block; margin-top: 8px;
  }
  .addr:hover { background: var(--green-dim); border-color: var(--border-strong); }

  button.refresh {
    font: inherit; font-size: 13px; font-weight: 700; color: #000;
    background: var(--green); border: none; border-radius: 12px;
    padding: 10px 20px; cursor: pointer;
  }
  button.refresh:disabled { opacity: 0.5; cursor: default; }

  /* Toast */
  .toast {
    position: fixed; bottom: 32px; left: 50%; transform: translateX(-50%);
    background: var(--green); color: #000; padding: 10px 24px;
    border-radius: 14px; font-size: 13px; font-weight: 700;
    opacity: 0; transition: opacity 0.3s; pointer-events: none;
  }
  .toast.error { background: var(--red); color: #fff; }
  .toast.info { background: var(--surface-hover); color: var(--text); }
  .toast.show { opacity: 1; }

  @media (max-width: 640px) {
    .stats-grid { grid-template-columns: 1fr 1fr; }
    body { padding: 24px 16px; }
    .stat-value { font-size: 26px; }
  }
</style>
</head>
<body>
<div class="container">

  <div class="header">
    <div class="header-text">
      <h1 id="headline">Checking server...</h1>
      <div class="subtitle" id="statusSub"></div>
    </div>
    <div class="spacer"></div>
    <div class="status-pill loading" id="statusPill">
      <span class="dot"></span>
      <span id="statusText">Checking</span>
    </div>
  </div>

  <div class="stats-grid">
    <div class="stat-card">
      <div class="stat-label">Players</div>
      <div class="stat-value" id="players">--</div>
      <div class="stat-sub" id="maxPlayers">of --</div>
    </div>
    <div class="stat-card">
      <div class="stat-label">Ping</div>
      <div class="stat-value small" id="ping">—</div>
    </div>
    <div class="stat-card">
      <div class="stat-label">Version</div>
      <div class="stat-value small" id="version">--</div>
    </div>
    <div class="stat-card full">
      <div class="stat-label">Message of the day</div>
      <div class="stat-sub" id="motd">--</div>
      <div class="stat-sub" style="margin-top: 16px;">Updated <span id="lastUpdate">never</span></div>
    </div>
  </div>

  <div class="message" id="message">
    <h2 id="msgHeading"></h2>
    <p id="msgBody"></p>
    <p id="msgDetail"></p>
  </div>

  <div class="stat-card full" style="margin-bottom: 16px;">
    <div class="stat-label">Connect</div>
    <div class="addr" id="javaAddr" title="Click to copy">--</div>
    <div class="addr" id="bedrockAddr" title="Click to copy">--</div>
  </div>

  <button class="refresh" id="refresh">Check now</button>

</div>

<div class="toast" id="toast"></div>

<script>
const $ = id => document.getElementById(id);
let lastSeq = -1;

function toast(text, level) {
  const t = $('toast');
  t.textContent = text;
  t.className = 'toast show ' + (level || '');
  setTimeout(() => { t.className = 'toast'; }, 3000);
}

async function fetchJSON(url, opts) {
  try {
    const res = await fetch(url, opts);
    if (res.status === 204) return null;
    return await res.json();
  } catch { return null; }
}

function render(v) {
  if (!v) return;
  $('headline').textContent = v.headline;
  $('statusSub').textContent = v.status_sub;
  $('statusPill').className = 'status-pill ' + (v.indicator === 'online' ? '' : v.indicator);
  $('statusText').textContent = v.status_text;
  $('players').textContent = v.player_count;
  $('maxPlayers').textContent = 'of ' + v.max_players;
  $('ping').textContent = v.ping;
  $('version').textContent = v.version;
  $('motd').textContent = v.motd;
  $('lastUpdate').textContent = v.last_update;
  $('message').className = 'message ' + v.message.tone;
  $('msgHeading').textContent = v.message.heading;
  $('msgBody').textContent = v.message.body;
  $('msgDetail').textContent = v.message.detail;
  $('javaAddr').textContent = v.addresses.java;
  $('bedrockAddr').textContent = v.addresses.bedrock;
  $('refresh').textContent = v.refresh_label;
  $('refresh').disabled = v.checking;
}

async function poll() {
  render(await fetchJSON('/api/view'));
  const n = await fetchJSON('/api/notification');
  if (n && n.seq !== lastSeq) {
    if (lastSeq !== -1) toast(n.message, n.level);
    lastSeq = n.seq;
  } else if (!n && lastSeq === -1) {
    lastSeq = 0;
  }
}

$('refresh').onclick = async () => {
  $('refresh').disabled = true;
  $('refresh').textContent = 'Checking...';
  const res = await fetchJSON('/api/refresh', { method: 'POST' });
  if (res && res.view) render(res.view);
  await poll();
};

['javaAddr', 'bedrockAddr'].forEach(id => {
  $(id).onclick = () => {
    const text = $(id).textContent;
    navigator.clipboard.writeText(text)
      .then(() => toast('Address copied: ' + text, 'info'))
      .catch(() => toast('Could not copy', 'error'));
  };
});

poll();
setInterval(poll, 5000);
</script>
</body>
</html>`

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}
