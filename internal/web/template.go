package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/boiler-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Boiler Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.normal { color: green; font-weight: bold; }
.degraded { color: orange; font-weight: bold; }
.rescue { color: orangered; font-weight: bold; }
.stop { color: red; font-weight: bold; }
.waiting, .ready { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Boiler Controller<span id="live-dot" class="live-dot pending" title="connecting"></span></h1>

<h2>State</h2>
<table>
<tr><th>Mode</th><td id="mode" class="{{.Tick.Mode}}">{{.Tick.Mode}}</td></tr>
<tr><th>Heater</th><td>{{if .Tick.HeaterOn}}on{{else}}off{{end}}</td></tr>
<tr><th>Emptying</th><td>{{if .Tick.Emptying}}yes{{else}}no{{end}}</td></tr>
<tr><th>Water</th><td id="water">{{printf "%.1f" .Tick.LastWater}}</td></tr>
<tr><th>Steam</th><td id="steam">{{printf "%.1f" .Tick.LastSteam}}</td></tr>
<tr><th>Water sensor</th><td>{{if .Tick.WaterSensorFailed}}failed{{else}}ok{{end}}</td></tr>
<tr><th>Steam sensor</th><td>{{if .Tick.SteamSensorFailed}}failed{{else}}ok{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Session</th><td>{{.Tick.SessionID}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Period</th><td>{{.Config.PeriodSecs}}s</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var dot = document.getElementById("live-dot");
  var modeEl = document.getElementById("mode");
  var waterEl = document.getElementById("water");
  var steamEl = document.getElementById("steam");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss:" : "ws:";
    var ws = new WebSocket(proto + "//" + location.host + "/ws");

    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() { setDot("err", "disconnected"); setTimeout(connect, 3000); };
    ws.onerror = function() { setDot("err", "error"); };
    ws.onmessage = function(evt) {
      try {
        var msg = JSON.parse(evt.data);
        if (msg.status) {
          modeEl.textContent = msg.status.mode;
          modeEl.className = msg.status.mode.toLowerCase();
          waterEl.textContent = msg.status.last_water.toFixed(1);
          steamEl.textContent = msg.status.last_steam.toFixed(1);
        }
      } catch (e) {}
    };
  }
  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
