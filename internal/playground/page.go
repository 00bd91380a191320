package playground

import "html/template"

type pageData struct {
	MetricsPath string
}

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Toaster Playground</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #18181b; }
form { display: flex; flex-wrap: wrap; gap: .5rem; margin-bottom: 1rem; }
input, select, button { font: inherit; padding: .35rem .6rem; }
#status { color: #71717a; font-size: .875rem; }
[data-toaster-container] { position: fixed; inset: 0; pointer-events: none; }
[data-toaster-content] {
  position: fixed; width: var(--width); margin: 0; padding: 0; list-style: none;
  transform: translateX(var(--translate-x));
}
[data-toaster-content][data-position-y="top"] { top: var(--toast-offset); }
[data-toaster-content][data-position-y="bottom"] { bottom: var(--toast-offset); }
[data-toaster-content][data-position-x="left"] { left: var(--toast-offset); }
[data-toaster-content][data-position-x="right"] { right: var(--toast-offset); }
[data-toaster-content][data-position-x="center"] { left: 50%; }
[data-toast-item] {
  position: absolute; left: 0; right: 0; box-sizing: border-box;
  display: flex; gap: .6rem; align-items: flex-start; padding: 1rem;
  background: var(--background-color); border: 1px solid var(--border-color);
  border-radius: var(--border-radius); z-index: var(--z-index);
  box-shadow: 0 4px 12px rgb(0 0 0 / 8%); pointer-events: auto;
  transition: transform .4s, opacity .4s;
}
[data-position-y="top"] [data-toast-item] { top: 0; transform: translateY(var(--offset)); }
[data-position-y="bottom"] [data-toast-item] { bottom: 0; transform: translateY(var(--offset)); }
[data-toast-item][data-mounted="false"], [data-toast-item][data-dismiss="true"] { opacity: 0; }
[data-toast-item][data-visible="false"] { opacity: 0; pointer-events: none; }
[data-toast-variant="filled"][data-toast-type="success"] { background: var(--success-color); color: var(--text-color-primary-foreground); }
[data-toast-variant="filled"][data-toast-type="error"] { background: var(--error-color); color: var(--text-color-primary-foreground); }
[data-toast-variant="filled"][data-toast-type="warning"] { background: var(--warning-color); color: var(--text-color-primary-foreground); }
[data-toast-variant="filled"][data-toast-type="info"] { background: var(--info-color); color: var(--text-color-primary-foreground); }
[data-toast-type="success"] [data-set-icon] { color: var(--success-color); }
[data-toast-type="error"] [data-set-icon] { color: var(--error-color); }
[data-toast-type="warning"] [data-set-icon] { color: var(--warning-color); }
[data-toast-type="info"] [data-set-icon] { color: var(--info-color); }
[data-set-icon] svg { width: 18px; height: 18px; }
[data-icon-type="loader"] svg { animation: spin 1s linear infinite; }
[data-toast-title] { font-weight: 600; margin: 0 0 .2rem; }
[data-toast-description], [data-promise-content] p { margin: 0; }
[data-promise-content] { display: flex; gap: .6rem; align-items: center; }
[data-dismiss-btn] { margin-left: auto; border: 0; background: none; cursor: pointer; color: inherit; padding: 0; }
[data-dismiss-btn] svg { width: 14px; height: 14px; }
@keyframes spin { to { transform: rotate(360deg); } }
</style>
</head>
<body>
<h1>Toaster Playground</h1>
<form id="toast-form">
  <select name="level">
    <option>info</option><option>success</option><option>warning</option><option>error</option>
  </select>
  <input name="title" placeholder="Title">
  <input name="message" placeholder="Message" value="Saved changes" required>
  <select name="variant"><option>default</option><option>filled</option></select>
  <input name="duration" type="number" placeholder="Duration (ms)">
  <button type="submit">Show</button>
</form>
<form id="promise-form">
  <input name="delay" type="number" value="1500" placeholder="Delay (ms)">
  <label><input name="fail" type="checkbox"> Fail</label>
  <button type="submit">Run promise</button>
</form>
<p id="status">Connecting... <a href="{{.MetricsPath}}">metrics</a></p>
<div id="toaster"></div>
<script>
(function() {
  var host = document.getElementById('toaster');
  var status = document.getElementById('status');

  function post(path, body) {
    return fetch(path, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: body ? JSON.stringify(body) : undefined
    }).then(function(res) {
      if (!res.ok && res.status !== 404) {
        res.json().then(function(e) { status.textContent = e.code + ': ' + e.message; });
      }
    });
  }

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
    var ws = new WebSocket(proto + '//' + location.host + '/ws');
    ws.onopen = function() { status.firstChild.textContent = 'Connected '; };
    ws.onmessage = function(e) {
      var msg = JSON.parse(e.data);
      if (msg.type === 'snapshot') host.innerHTML = msg.html;
    };
    ws.onclose = function() {
      status.firstChild.textContent = 'Disconnected, retrying... ';
      setTimeout(connect, 1000);
    };
  }

  host.addEventListener('click', function(e) {
    var btn = e.target.closest('[data-dismiss-btn]');
    if (!btn) return;
    var item = btn.closest('[data-toast-id]');
    post('/toasts/' + item.getAttribute('data-toast-id') + '/dismiss');
  });

  document.getElementById('toast-form').addEventListener('submit', function(e) {
    e.preventDefault();
    var f = new FormData(e.target);
    var ev = {level: f.get('level'), message: f.get('message'), title: f.get('title'), variant: f.get('variant')};
    if (f.get('duration')) ev.duration = parseInt(f.get('duration'), 10);
    post('/toasts', ev);
  });

  document.getElementById('promise-form').addEventListener('submit', function(e) {
    e.preventDefault();
    var f = new FormData(e.target);
    post('/promise', {delay: parseInt(f.get('delay') || '0', 10), fail: f.get('fail') === 'on'});
  });

  connect();
})();
</script>
</body>
</html>
`
