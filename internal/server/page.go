package server

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/san-kum/pengviz/internal/penguin"
	"github.com/san-kum/pengviz/internal/render"
	"github.com/san-kum/pengviz/internal/session"
)

//go:embed templates/index.html
var templates embed.FS

var pageTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pane struct {
	Name  string
	Title string
	Image bool
}

type page struct {
	Session         string
	Attributes      []option
	Species         []option
	InteractiveBins string
	StaticBins      int
	Outputs         []pane
}

func newPage(sess *session.Session) page {
	in := sess.Inputs()
	p := page{
		Session:         sess.ID(),
		InteractiveBins: strconv.Itoa(in.InteractiveBins),
		StaticBins:      min(max(in.StaticBins, 0), 100),
	}
	for _, col := range penguin.NumericColumns {
		p.Attributes = append(p.Attributes, option{
			Value:    string(col),
			Label:    col.Label(),
			Selected: col == in.Attribute,
		})
	}
	for _, sp := range penguin.AllSpecies {
		p.Species = append(p.Species, option{
			Value:    string(sp),
			Label:    string(sp),
			Selected: in.Species.Contains(sp),
		})
	}
	for _, o := range render.Outputs() {
		p.Outputs = append(p.Outputs, pane{
			Name:  o.Name,
			Title: o.Title,
			Image: o.Snapshot == render.FormatPNG,
		})
	}
	return p
}
