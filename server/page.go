package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/spektr-org/hrpulse/report"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Report.PageTitle}}</title>
<style>
body { font-family: sans-serif; margin: 0 auto; padding: 1.5rem; max-width: {{if eq .Report.Layout "wide"}}100%{{else}}960px{{end}}; }
.kpis { display: flex; gap: 1rem; margin-bottom: 2rem; }
.kpi { flex: 1; border: 1px solid #ddd; border-radius: 6px; padding: 1rem; }
.kpi .label { color: #666; font-size: 0.9rem; }
.kpi .value { font-size: 2rem; }
.charts { display: grid; grid-template-columns: repeat(auto-fit, minmax(480px, 1fr)); gap: 1.5rem; }
.charts img { width: 100%; }
table { border-collapse: collapse; margin-top: 2rem; }
th, td { padding: 0.3rem 0.8rem; border-bottom: 1px solid #eee; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.error { color: #b91c1c; }
</style>
</head>
<body>
<h1>{{.Report.Title}}</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{else}}
<div class="kpis">
{{range .Report.KPIs.Metrics}}<div class="kpi"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>
<div class="charts">
{{range .Report.Charts}}<figure><img src="/charts/{{.Spec.ID}}.png" alt="{{.Spec.Title}}"></figure>
{{end}}</div>
{{with .Report.JobRoleTable}}<h2>{{.Title}}</h2>
<table>
<tr>{{range .Columns}}<th>{{.Label}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>{{end}}
{{end}}
</body>
</html>
`))

type pageData struct {
	Report *report.Report
	Error  string
}

// handlePage serves the dashboard. A failed report renders the page header
// and the error, with the matching status code, and nothing else.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	opts := s.generator.Options()
	status := http.StatusOK
	data := pageData{}

	rep, err := s.generator.Generate(s.dataPath)
	if err != nil {
		status, _ = Classify(err)
		data.Report = &report.Report{Title: opts.Title, PageTitle: opts.PageTitle, Layout: opts.Layout}
		data.Error = err.Error()
	} else {
		data.Report = rep
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.errorHandler.handle(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
