// Package plotter renders weekly simulation trajectories as standalone SVG
// line charts. No external renderer is involved; the output opens directly in
// a browser.
package plotter

import (
	"fmt"
	"math"
	"strings"

	"github.com/careflow-xyz/go-careflow/model"
	"github.com/careflow-xyz/go-careflow/results"
)

// Series is one line on the chart.
type Series struct {
	X     []float64
	Y     []float64
	Label string
	Color string
}

// SVGPlotter builds a line chart from added series.
type SVGPlotter struct {
	width  float64
	height float64
	title  string
	xlabel string
	ylabel string
	series []Series
}

var palette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3",
	"#ff7f00", "#a65628", "#f781bf", "#999999",
}

// NewSVGPlotter creates a plotter with the given canvas size.
func NewSVGPlotter(width, height float64) *SVGPlotter {
	return &SVGPlotter{
		width:  width,
		height: height,
		xlabel: "Week",
		ylabel: "Patients",
	}
}

// WithTitle sets the chart title.
func (p *SVGPlotter) WithTitle(t string) *SVGPlotter {
	p.title = t
	return p
}

// WithLabels sets the axis labels.
func (p *SVGPlotter) WithLabels(x, y string) *SVGPlotter {
	p.xlabel, p.ylabel = x, y
	return p
}

// AddSeries adds one line. An empty color picks the next palette entry.
func (p *SVGPlotter) AddSeries(x, y []float64, label, color string) *SVGPlotter {
	if color == "" {
		color = palette[len(p.series)%len(palette)]
	}
	p.series = append(p.series, Series{X: x, Y: y, Label: label, Color: color})
	return p
}

const (
	marginTop    = 40.0
	marginRight  = 150.0
	marginBottom = 50.0
	marginLeft   = 70.0
)

// Render generates the SVG document.
func (p *SVGPlotter) Render() string {
	pw := p.width - marginLeft - marginRight
	ph := p.height - marginTop - marginBottom

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := 0.0, math.Inf(-1)
	for _, s := range p.series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymax = math.Max(ymax, s.Y[i])
		}
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	if math.IsInf(ymax, -1) || ymax == 0 {
		ymax = 1
	}
	if xmax == xmin {
		xmax = xmin + 1
	}
	ymax *= 1.05

	sx := func(x float64) float64 { return marginLeft + (x-xmin)/(xmax-xmin)*pw }
	sy := func(y float64) float64 { return marginTop + ph - (y-ymin)/(ymax-ymin)*ph }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`,
		int(p.width), int(p.height)))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#f8f9fa" rx="8"/>`,
		int(p.width), int(p.height)))

	if p.title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="16" font-weight="bold">%s</text>`,
			p.width/2, escape(p.title)))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#333" stroke-width="2"/>`,
		marginLeft, marginTop, marginLeft, marginTop+ph))
	sb.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#333" stroke-width="2"/>`,
		marginLeft, marginTop+ph, marginLeft+pw, marginTop+ph))
	sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" text-anchor="middle" font-family="Arial, sans-serif" font-size="12">%s</text>`,
		marginLeft+pw/2, p.height-10, escape(p.xlabel)))
	sb.WriteString(fmt.Sprintf(`<text x="15" y="%g" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" transform="rotate(-90, 15, %g)">%s</text>`,
		marginTop+ph/2, marginTop+ph/2, escape(p.ylabel)))

	// Grid and tick labels
	const ticks = 5
	for i := 0; i <= ticks; i++ {
		x := xmin + (xmax-xmin)*float64(i)/ticks
		px := sx(x)
		sb.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#ddd" stroke-width="0.5"/>`,
			px, marginTop, px, marginTop+ph))
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" text-anchor="middle" font-family="Arial, sans-serif" font-size="10">%.0f</text>`,
			px, marginTop+ph+20, x))

		y := ymin + (ymax-ymin)*float64(i)/ticks
		py := sy(y)
		sb.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#ddd" stroke-width="0.5"/>`,
			marginLeft, py, marginLeft+pw, py))
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" text-anchor="end" font-family="Arial, sans-serif" font-size="10">%.0f</text>`,
			marginLeft-8, py+4, y))
	}

	// Series paths
	for _, s := range p.series {
		if len(s.X) == 0 {
			continue
		}
		var path strings.Builder
		for i := range s.X {
			cmd := " L"
			if i == 0 {
				cmd = "M"
			}
			path.WriteString(fmt.Sprintf("%s%g,%g", cmd, sx(s.X[i]), sy(s.Y[i])))
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" stroke="%s" stroke-width="2" fill="none"/>`,
			path.String(), s.Color))
	}

	// Legend in the right margin
	legendY := marginTop + 10
	for _, s := range p.series {
		if s.Label == "" {
			continue
		}
		x1 := p.width - marginRight + 10
		sb.WriteString(fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="%s" stroke-width="2"/>`,
			x1, legendY, x1+20, legendY, s.Color))
		sb.WriteString(fmt.Sprintf(`<text x="%g" y="%g" font-family="Arial, sans-serif" font-size="10">%s</text>`,
			x1+25, legendY+4, escape(s.Label)))
		legendY += 18
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// stockSeries enumerates the plottable trajectories of a run.
var stockSeries = map[string]func(model.State) float64{
	"untreated":   func(s model.State) float64 { return s.Untreated },
	"informal":    func(s model.State) float64 { return s.Informal },
	"l0":          func(s model.State) float64 { return s.Level[0] },
	"l1":          func(s model.State) float64 { return s.Level[1] },
	"l2":          func(s model.State) float64 { return s.Level[2] },
	"l3":          func(s model.State) float64 { return s.Level[3] },
	"queueTotal":  func(s model.State) float64 { return s.QueueTotal() },
	"resolved":    func(s model.State) float64 { return s.Resolved },
	"dead":        func(s model.State) float64 { return s.Dead },
	"queueDeaths": func(s model.State) float64 { return s.QueueDeaths },
}

// defaultSeries is what PlotResults draws when no selection is given.
var defaultSeries = []string{"untreated", "informal", "l0", "l1", "l2", "l3", "queueTotal"}

// PlotResults charts the selected weekly trajectories of a run. A nil
// selection plots the current stocks and the total queue backlog. Unknown
// series names are an error; the run must retain its weekly states.
func PlotResults(r *results.Results, series []string, width, height float64, title string) (string, error) {
	if len(r.Weekly) == 0 {
		return "", fmt.Errorf("plot: run %s has no weekly states", r.RunID)
	}
	if series == nil {
		series = defaultSeries
	}

	weeks := make([]float64, len(r.Weekly))
	for i, s := range r.Weekly {
		weeks[i] = float64(s.Week)
	}

	p := NewSVGPlotter(width, height).WithTitle(title)
	for _, name := range series {
		get, ok := stockSeries[name]
		if !ok {
			return "", fmt.Errorf("plot: unknown series %q", name)
		}
		y := make([]float64, len(r.Weekly))
		for i, s := range r.Weekly {
			y[i] = get(s)
		}
		p.AddSeries(weeks, y, name, "")
	}
	return p.Render(), nil
}
