package internal

import (
	"html/template"
	"log"
	"net/http"
)

var homeTemplate = template.Must(template.New("home").Parse(homeTpl))

type homePage struct {
	DateRanges    []DateRange
	Durations     map[string]string
	Topics        []Topic
	Formats       map[string]string
	Settings      Settings
	TokenRequired bool
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	settings, err := s.app.LoadSettings()
	if err != nil {
		log.Printf("loading settings: %v", err)
	}
	page := homePage{
		DateRanges:    DateRanges,
		Durations:     Durations,
		Topics:        Topics,
		Formats:       SnapshotFormats,
		Settings:      settings,
		TokenRequired: s.app.Guard().Enabled(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, page); err != nil {
		log.Printf("rendering home: %v", err)
	}
}

const homeTpl = `<!doctype html>
<html lang="en">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>ytsnap</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:960px;margin:0 auto;padding:1rem}
form{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:10px;align-items:end;border:1px solid #ddd;border-radius:8px;padding:12px}
label{display:flex;flex-direction:column;font-size:.9rem;gap:4px}
input,select,button{padding:6px;font-size:1rem}
button{cursor:pointer}
#status{margin:10px 0;color:#666;min-height:1.2em}
#status.error{color:#b00020}
.result{display:flex;gap:12px;padding:10px;border-bottom:1px solid #eee}
.result img{width:160px;height:90px;object-fit:cover;border-radius:4px;flex:0 0 auto}
.result .title{font-weight:600}
.muted{color:#666;font-size:.9rem}
.actions{display:flex;gap:8px;flex-wrap:wrap;margin:12px 0}
#archive li{padding:4px 0}
</style>
<h1>ytsnap</h1>
<form id="searchForm">
  <label>Search query
    <input name="query" id="query" value="{{.Settings.Query}}" placeholder="e.g. lofi beats">
  </label>
  <label>Date range
    <select name="dateRange" id="dateRange">
      {{range .DateRanges}}<option value="{{.Key}}"{{if eq .Key $.Settings.DateRange}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
  </label>
  <label>Duration
    <select name="duration" id="duration">
      {{range $key, $label := .Durations}}<option value="{{$key}}"{{if eq $key $.Settings.Duration}} selected{{end}}>{{$label}}</option>{{end}}
    </select>
  </label>
  <label>Topic
    <select name="topic" id="topic">
      {{range .Topics}}<option value="{{.Key}}"{{if eq .Key $.Settings.Topic}} selected{{end}}>{{.Label}}</option>{{end}}
    </select>
  </label>
  <label>Max results
    <input name="maxResults" id="maxResults" type="number" min="1" max="25" value="{{.Settings.MaxResults}}">
  </label>
  <label>Snapshot format
    <select name="format" id="format">
      {{range $key, $label := .Formats}}<option value="{{$key}}"{{if eq $key $.Settings.Format}} selected{{end}}>{{$label}}</option>{{end}}
    </select>
  </label>
  {{if .TokenRequired}}
  <label>App token
    <input name="token" id="token" type="password" placeholder="required for saving">
  </label>
  {{end}}
  <button type="submit">Search</button>
</form>

<div id="status"></div>
<div class="actions">
  <button id="saveBtn" disabled>Save snapshot</button>
  <button id="notifyBtn" disabled>Share to Discord</button>
  <button id="listBtn">List archive</button>
  <button id="clearBtn">Clear archive</button>
</div>
<div id="results"></div>
<ul id="archive"></ul>

<script>
(function(){
  var form = document.getElementById('searchForm');
  var status = document.getElementById('status');
  var results = document.getElementById('results');
  var archive = document.getElementById('archive');
  var tokenInput = document.getElementById('token');
  var lastSnapshot = null;

  if (tokenInput) {
    tokenInput.value = localStorage.getItem('ytsnap-token') || '';
    tokenInput.addEventListener('change', function(){
      localStorage.setItem('ytsnap-token', tokenInput.value);
    });
  }

  function token(){ return tokenInput ? tokenInput.value : ''; }

  function setStatus(msg, isError){
    status.textContent = msg || '';
    status.className = isError ? 'error' : '';
  }

  function esc(s){
    return String(s == null ? '' : s)
      .replace(/&/g,'&amp;').replace(/</g,'&lt;').replace(/>/g,'&gt;')
      .replace(/"/g,'&quot;').replace(/'/g,'&#39;');
  }

  function params(){
    return {
      query: document.getElementById('query').value.trim(),
      dateRange: document.getElementById('dateRange').value,
      duration: document.getElementById('duration').value,
      topic: document.getElementById('topic').value,
      maxResults: parseInt(document.getElementById('maxResults').value, 10) || 12
    };
  }

  function api(path, body){
    return fetch(path, {
      method: 'POST',
      headers: {'Content-Type': 'application/json', 'X-App-Token': token()},
      body: JSON.stringify(body)
    }).then(function(resp){
      return resp.json().then(function(data){
        if (!resp.ok) throw new Error(data.error || ('HTTP ' + resp.status));
        return data;
      });
    });
  }

  function renderResults(items){
    results.innerHTML = '';
    items.forEach(function(item){
      var div = document.createElement('div');
      div.className = 'result';
      div.innerHTML =
        (item.thumbnail ? '<img src="' + esc(item.thumbnail) + '" alt="thumbnail">' : '') +
        '<div><div class="title"><a target="_blank" href="' + esc(item.url) + '">' + esc(item.title) + '</a></div>' +
        '<div class="muted">' + esc(item.channelTitle) + ' • ' + Number(item.viewCount).toLocaleString() + ' views • ' + esc(item.publishedAt) + '</div>' +
        '<div>' + esc(item.description) + '</div></div>';
      results.appendChild(div);
    });
  }

  form.addEventListener('submit', function(e){
    e.preventDefault();
    var p = params();
    setStatus('Searching...');
    api('/api/search', p).then(function(data){
      lastSnapshot = Object.assign({}, p, {items: data.items});
      renderResults(data.items);
      setStatus(data.items.length + ' result(s), quota used: ' + data.quotaUsed);
      document.getElementById('saveBtn').disabled = data.items.length === 0;
      document.getElementById('notifyBtn').disabled = data.items.length === 0;
      api('/api/settings', Object.assign({}, p, {format: document.getElementById('format').value})).catch(function(){});
    }).catch(function(err){ setStatus(err.message, true); });
  });

  document.getElementById('saveBtn').addEventListener('click', function(){
    if (!lastSnapshot) return;
    var body = Object.assign({}, lastSnapshot, {format: document.getElementById('format').value});
    api('/api/save', body).then(function(data){
      setStatus('Saved as ' + data.file);
    }).catch(function(err){ setStatus(err.message, true); });
  });

  document.getElementById('notifyBtn').addEventListener('click', function(){
    if (!lastSnapshot) return;
    api('/api/notify', lastSnapshot).then(function(){
      setStatus('Shared to Discord.');
    }).catch(function(err){ setStatus(err.message, true); });
  });

  document.getElementById('listBtn').addEventListener('click', function(){
    fetch('/api/snapshots', {headers: {'X-App-Token': token()}}).then(function(resp){
      return resp.json().then(function(data){
        if (!resp.ok) throw new Error(data.error || ('HTTP ' + resp.status));
        archive.innerHTML = '';
        data.items.forEach(function(entry){
          var li = document.createElement('li');
          li.innerHTML = '<a href="/archive/' + encodeURIComponent(entry.name) +
            (token() ? '?token=' + encodeURIComponent(token()) : '') + '">' + esc(entry.name) + '</a>' +
            ' <span class="muted">(' + entry.size + ' bytes)</span>';
          archive.appendChild(li);
        });
        setStatus(data.items.length + ' archived snapshot(s).');
      });
    }).catch(function(err){ setStatus(err.message, true); });
  });

  document.getElementById('clearBtn').addEventListener('click', function(){
    if (!confirm('Delete all archived snapshots?')) return;
    api('/api/archive/clear', {}).then(function(data){
      archive.innerHTML = '';
      setStatus('Deleted ' + data.deleted + ' file(s).');
    }).catch(function(err){ setStatus(err.message, true); });
  });
})();
</script>
`
