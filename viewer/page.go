// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package viewer

import (
	"html/template"
	"net/url"

	"github.com/2dChan/antennamap"
)

const pageTitle = "Antenna Position Map"

type groupRow struct {
	ID      string
	Nodes   int
	Color   string
	Hex     string
	Visible bool
}

type pageData struct {
	Title       string
	Document    template.HTML
	Groups      []groupRow
	Connections bool
	ExportURL   string
}

func newPageData(groups []antennamap.Group, sel antennamap.Selection, doc string, q url.Values) pageData {
	rows := make([]groupRow, len(groups))
	for i, g := range groups {
		hex, _ := antennamap.HexOf(g.Color)
		rows[i] = groupRow{
			ID:      g.ID,
			Nodes:   g.Len(),
			Color:   g.Color,
			Hex:     hex,
			Visible: sel.Has(g.ID),
		}
	}
	exportURL := "/export"
	if enc := q.Encode(); enc != "" {
		exportURL += "?" + enc
	}
	return pageData{
		Title: pageTitle,
		// The document is produced by antennamap.Render, which escapes every
		// user-supplied string it embeds.
		Document:    template.HTML(inlineDocument(doc)),
		Groups:      rows,
		Connections: connectionsFromQuery(q),
		ExportURL:   exportURL,
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: ui-sans-serif, system-ui, sans-serif; margin: 0; padding: 3rem 1rem; background: #fafafa; color: #111; }
main { max-width: 64rem; margin: 0 auto; }
h1 { text-align: center; font-size: 1.875rem; font-weight: 800; margin-bottom: 2rem; }
.toolbar { display: flex; justify-content: space-between; align-items: center; margin: 1rem 0; }
.map { overflow-x: auto; background: white; border-radius: 8px; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #e5e5e5; }
.swatch { display: inline-block; width: 1.5rem; height: 1.5rem; border-radius: 50%; vertical-align: middle; }
#details { position: fixed; inset: 0; display: none; align-items: center; justify-content: center; background: rgba(0, 0, 0, 0.5); }
#details.open { display: flex; }
#details .card { background: white; border-radius: 8px; padding: 1.5rem; min-width: 20rem; }
#details dl { display: grid; grid-template-columns: auto auto; gap: 0.5rem 1rem; }
#details dt { font-weight: 600; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<div class="toolbar">
<label><input type="checkbox" id="connections"{{if .Connections}} checked{{end}}> Show Connections</label>
<a href="{{.ExportURL}}" download="antenna_map.svg">Export SVG</a>
</div>
<div class="map">{{.Document}}</div>
<table>
<thead><tr><th>Visible</th><th>Group ID</th><th>Nodes</th><th>Color</th></tr></thead>
<tbody>
{{range .Groups}}<tr>
<td><input type="checkbox" class="group-toggle" value="{{.ID}}"{{if .Visible}} checked{{end}}></td>
<td>{{.ID}}</td>
<td>{{.Nodes}}</td>
<td><span class="swatch" style="background-color: {{.Hex}}" title="{{.Color}}"></span></td>
</tr>
{{end}}</tbody>
</table>
</main>
<div id="details"><div class="card">
<h2 id="details-title"></h2>
<dl id="details-list"></dl>
<button type="button" id="details-close">Close</button>
</div></div>
<script>
(function () {
  function reload() {
    var q = new URLSearchParams();
    var boxes = document.querySelectorAll(".group-toggle:checked");
    if (boxes.length === 0) {
      q.append("group", "");
    }
    boxes.forEach(function (b) { q.append("group", b.value); });
    if (!document.getElementById("connections").checked) {
      q.set("connections", "off");
    }
    location.search = q.toString();
  }
  document.querySelectorAll(".group-toggle").forEach(function (b) { b.addEventListener("change", reload); });
  document.getElementById("connections").addEventListener("change", reload);

  var panel = document.getElementById("details");
  document.getElementById("details-close").addEventListener("click", function () { panel.classList.remove("open"); });

  function show(reply) {
    document.getElementById("details-title").textContent = "Antenna Details: " + reply.id;
    var list = document.getElementById("details-list");
    list.replaceChildren();
    reply.details.forEach(function (d) {
      var dt = document.createElement("dt");
      dt.textContent = d.label + ":";
      var dd = document.createElement("dd");
      dd.textContent = d.value;
      list.append(dt, dd);
    });
    panel.classList.add("open");
  }

  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (m) { show(JSON.parse(m.data)); };

  document.addEventListener("click", function (e) {
    var el = e.target.closest("[data-event]");
    if (!el || ws.readyState !== WebSocket.OPEN) {
      return;
    }
    ws.send(JSON.stringify({ event: el.dataset.event, antenna: JSON.parse(el.dataset.antenna) }));
  });
})();
</script>
</body>
</html>
`))
