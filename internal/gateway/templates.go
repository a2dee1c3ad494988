package gateway

import "html/template"

const headTmpl = `{{define "head"}}<!DOCTYPE html><html><head><title>boardgate</title>
<style>body { background-color: #FFFFFF } td { padding: 2px 8px; vertical-align: top }</style></head>
{{end}}`

const monitorTmpl = `{{define "monitor"}}{{template "head"}}<body onload="whiteboardMonitor();">
<script>
function whiteboardMonitor() {
	setInterval(function() {
		var boxes = document.getElementsByName('wbmonitor');
		for (var i = 0, n = boxes.length; i < n; i++) {
			if (boxes[i].checked)
				refreshValue(boxes[i]);
		}
	}, 1000);
}
function refreshValue(cb) {
	var name = cb.getAttribute('data-name');
	var xhttp = new XMLHttpRequest();
	xhttp.onreadystatechange = function() {
		if (this.readyState == 4 && this.status == 200) {
			var cell = document.getElementById('val_' + name);
			if (cell)
				cell.textContent = JSON.parse(this.responseText).value;
		}
	};
	xhttp.open('GET', '/' + name, true);
	xhttp.setRequestHeader('Accept', 'application/vnd.api+json');
	xhttp.send();
}
function toggleAll(source) {
	var boxes = document.getElementsByName('wbmonitor');
	for (var i = 0, n = boxes.length; i < n; i++) {
		boxes[i].checked = source.checked;
		refreshValue(boxes[i]);
	}
}
</script>
<h1>Board Types</h1>
<table>
<tr>
<td><input type="checkbox" onclick="toggleAll(this)"></td>
<td>Toggle All</td>
</tr>
{{range .Rows}}<tr>
<td><input type="checkbox" id="chk_{{.Name}}" name="wbmonitor" data-name="{{.Name}}" onclick="refreshValue(this);"></td>
{{if .Parsable}}<td><a href="/{{.Name}}">{{.Name}}</a></td>
<td id="val_{{.Name}}">{{.Value}}</td>
{{else}}<td>{{.Name}}</td>
{{end}}</tr>
{{end}}</table>
</body></html>
{{end}}`

const editorTmpl = `{{define "editor"}}{{template "head"}}<body>
<h1>{{.Name}}</h1>
<form id="form" method="POST" data-name="{{.Name}}">
<div style="width:50%;">
	<textarea id="textarea" style="width:100%;" rows="20">{{.Value}}</textarea>
</div>
<div style="width:50%; text-align:right;">
	<input type="submit">
</div>
</form>
<script>
function submitValue(e) {
	e.preventDefault();
	var form = document.getElementById('form');
	var area = document.getElementById('textarea');
	var body = '{"value":"' + encodeURIComponent(area.value) + '"}';
	var xhttp = new XMLHttpRequest();
	xhttp.onreadystatechange = function() {
		if (this.readyState == 4 && this.status == 200)
			area.value = JSON.parse(this.responseText).value;
	};
	xhttp.open('POST', '/' + form.getAttribute('data-name'), true);
	xhttp.setRequestHeader('Content-Type', 'application/vnd.api+json');
	xhttp.setRequestHeader('Accept', 'application/vnd.api+json');
	xhttp.send(body);
	return false;
}
document.getElementById('form').addEventListener('submit', submitValue);
</script>
</body></html>
{{end}}`

const usageTmpl = `{{define "usage"}}{{template "head"}}<body>
<h1>Usage</h1>
<p>Send <code>Accept: application/vnd.api+json</code> for JSON or <code>Accept: text/html</code> for pages.</p>
<table>
<tr><td>GET /</td><td>json</td><td>{"types":[{"type":"&lt;name&gt;","parsable":true}, ...]}</td></tr>
<tr><td>GET /&lt;name&gt;</td><td>json</td><td>{"value":"..."}</td></tr>
<tr><td>POST, PATCH /&lt;name&gt;</td><td>json</td><td>body {"value":"&lt;percent-encoded&gt;"}, answered with the stored value</td></tr>
<tr><td>GET /</td><td>html</td><td>monitor table of {{.Count}} names</td></tr>
<tr><td>GET /&lt;name&gt;</td><td>html</td><td>value editor</td></tr>
</table>
</body></html>
{{end}}`

var pages = template.Must(template.New("pages").Parse(headTmpl + monitorTmpl + editorTmpl + usageTmpl))

type monitorRow struct {
	Name     string
	Parsable bool
	Value    string
}

type monitorPage struct {
	Rows []monitorRow
}

type editorPage struct {
	Name  string
	Value string
}

type usagePage struct {
	Count int
}
