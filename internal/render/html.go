package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

var tableTmpl = template.Must(template.New("table").Parse(`<div class="output output-{{.Mode}}" id="{{.Output}}"
     {{- if .PageSize}} data-page-size="{{.PageSize}}"{{end}}
     {{- if .Sortable}} data-sortable="true"{{end}}>
<h2>{{.Title}}</h2>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- else}}
<tr class="empty"><td colspan="{{len .Columns}}">No rows match the current selection.</td></tr>
{{- end}}
</tbody>
</table>
</div>
`))

var chartTmpl = template.Must(template.New("chart").Parse(`<figure class="output output-{{.Chart.Kind}}" id="{{.Chart.Output}}" data-presentation="{{.Chart.Presentation}}">
{{.SVG}}
<figcaption>{{.Chart.Title}}</figcaption>
</figure>
`))

// WriteHTML writes a fragment for embedding in a page. Charts are inlined
// as SVG.
func WriteHTML(w io.Writer, a Artifact) error {
	switch v := a.(type) {
	case *Table:
		return tableTmpl.Execute(w, v)
	case *Chart:
		var svg bytes.Buffer
		if err := WriteSVG(&svg, v, DefaultImageSize); err != nil {
			return err
		}
		return chartTmpl.Execute(w, struct {
			Chart *Chart
			SVG   template.HTML
		}{v, template.HTML(stripXMLHeader(svg.Bytes()))})
	}
	return fmt.Errorf("%w: %T as html", ErrUnsupported, a)
}

func stripXMLHeader(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("<?xml")) {
		if i := bytes.Index(b, []byte("?>")); i >= 0 {
			return bytes.TrimLeft(b[i+2:], "\r\n")
		}
	}
	return b
}
