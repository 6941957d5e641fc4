package render

import (
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("results").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Search{{if .Query}}: {{.Query}}{{end}}</title></head>
<body class="SRPage">
<div id="SRIndex">
{{- if .Disabled}}
<div class="SRStatus" id="Disabled">Search unavailable</div>
{{- else if not .Rows}}
<div class="SRStatus" id="NoMatches">No Matches</div>
{{- else}}
{{- range .Rows}}
<div class="SRResult" id="{{.ID}}">
 <div class="SREntry">
{{- if .Link}}
  <a class="SRSymbol" href="{{.Link.Href}}"{{with .Link.Target}} target="{{.}}"{{end}}>{{.Name}}</a>
  <span class="SRScope">{{.Scope}}</span>
{{- else}}
  <span class="SRSymbol">{{.Name}}</span>
  <div class="SRChildren">
{{- range .Children}}
   <a class="SRScope" href="{{.Href}}"{{with .Target}} target="{{.}}"{{end}}>{{.Text}}</a>
{{- end}}
  </div>
{{- end}}
 </div>
</div>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))

type page struct {
	Query    string
	Rows     []Row
	Disabled bool
}

// HTML renders the results page for query.
func HTML(w io.Writer, query string, rows []Row) error {
	return execute(w, page{Query: query, Rows: rows})
}

// Disabled renders the page shown when no usable index is loaded.
func Disabled(w io.Writer, query string) error {
	return execute(w, page{Query: query, Disabled: true})
}

func execute(w io.Writer, p page) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render results: %w", err)
	}
	return nil
}
