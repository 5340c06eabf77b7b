// Package chart draws one before/after line chart per measurement column.
package chart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/couchcryptid/weather-qc/internal/pipeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 10 * vg.Inch
	height = 4 * vg.Inch
)

var (
	beforeColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	afterColor  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

type chartSpec struct {
	file   string
	title  string
	yLabel string
}

var specs = [domain.NumColumns]chartSpec{
	domain.Precip:    {file: "A_Precipitation.png", title: "Precipitation", yLabel: "Precipitation (mm)"},
	domain.MaxTemp:   {file: "B_MaxTemp.png", title: "Maximum Temperature", yLabel: "Temperature (°C)"},
	domain.MinTemp:   {file: "C_MinTemp.png", title: "Minimum Temperature", yLabel: "Temperature (°C)"},
	domain.WindSpeed: {file: "D_WindSpeed.png", title: "Wind Speed", yLabel: "Wind Speed (m/s)"},
}

// Writer saves the charts as PNG files in a directory.
// It implements pipeline.Loader.
type Writer struct {
	dir string
}

// NewWriter creates a Writer that saves into dir, creating it if needed.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Name() string { return "chart" }

// Load draws the loaded table against the cleaned table, one file per column.
func (w *Writer) Load(ctx context.Context, result pipeline.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	for _, c := range domain.Columns() {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := newChart(c, result.Original, result.Cleaned)
		if err != nil {
			return fmt.Errorf("chart %s: %w", c, err)
		}
		path := filepath.Join(w.dir, specs[c].file)
		if err := p.Save(width, height, path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

// Files returns the chart file names in column order.
func Files() []string {
	out := make([]string, 0, domain.NumColumns)
	for _, s := range specs {
		out = append(out, s.file)
	}
	return out
}

func newChart(c domain.Column, before, after domain.Table) (*plot.Plot, error) {
	s := specs[c]
	p := plot.New()
	p.Title.Text = s.title + " (before and after correction)"
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Y.Label.Text = s.yLabel
	p.Legend.Top = true

	if err := addSeries(p, "Before correction", beforeColor, segments(before, c)); err != nil {
		return nil, err
	}
	if err := addSeries(p, "After correction", afterColor, segments(after, c)); err != nil {
		return nil, err
	}
	return p, nil
}

func addSeries(p *plot.Plot, label string, col color.Color, segs []plotter.XYs) error {
	for i, seg := range segs {
		l, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		l.Color = col
		l.Width = vg.Points(1)
		p.Add(l)
		if i == 0 {
			p.Legend.Add(label, l)
		}
	}
	return nil
}

// segments splits a column into runs of consecutive plottable values so a
// missing day leaves a gap instead of a bridging line. Infinite values are
// treated as gaps.
func segments(t domain.Table, c domain.Column) []plotter.XYs {
	var (
		out []plotter.XYs
		cur plotter.XYs
	)
	for i := range t {
		v := t[i].Get(c)
		if !v.Valid || math.IsInf(v.Float, 0) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(t[i].Date.Unix()), Y: v.Float})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
