package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

var bandColors = map[sweep.Band]color.Color{
	sweep.BandNone:       color.RGBA{R: 0, G: 0, B: 139, A: 255},
	sweep.BandVacuum:     color.Gray{Y: 128},
	sweep.BandConduction: color.RGBA{R: 0, G: 100, B: 0, A: 255},
	sweep.BandValence:    color.RGBA{R: 139, G: 69, B: 19, A: 255},
	sweep.BandIntrinsic:  color.RGBA{R: 255, G: 165, B: 0, A: 255},
	sweep.BandFermi:      color.RGBA{R: 255, G: 0, B: 0, A: 255},
}

var axisLabels = map[sweep.Kind]string{
	sweep.KindEnergy:        "Energy (eV)",
	sweep.KindPotential:     "Potential (V)",
	sweep.KindElectricField: "Electric field (V/cm)",
	sweep.KindChargeDensity: "Charge density (C/cm²)",
	sweep.KindCapacitance:   "Capacitance (µF/cm²)",
}

// ExportProfile writes a profile against depth to an image file. Each
// layer of each series is drawn as its own line so jumps at interfaces
// stay vertical, and interfaces are marked with dashed lines.
func ExportProfile(series []Series, kind sweep.Kind, title, filename string) error {
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Depth from gate (nm)"
	p.Y.Label.Text = axisLabels[kind]
	p.Legend.Top = true

	ylo, yhi := math.Inf(1), math.Inf(-1)
	var interfaces []float64
	for _, s := range series {
		for _, seg := range byLayer(s.Points) {
			xys := make(plotter.XYs, len(seg))
			for i, pt := range seg {
				xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
				ylo = math.Min(ylo, pt.Y)
				yhi = math.Max(yhi, pt.Y)
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return err
			}
			line.LineStyle.Width = vg.Points(1.5)
			line.LineStyle.Color = bandColors[s.Band]
			p.Add(line)
			if seg[0].X > 0 && !slices.Contains(interfaces, seg[0].X) {
				interfaces = append(interfaces, seg[0].X)
			}
		}
		if l := s.Label(); l != "" {
			swatch, err := plotter.NewLine(plotter.XYs{{X: s.Points[0].X, Y: s.Points[0].Y}})
			if err == nil {
				swatch.LineStyle.Color = bandColors[s.Band]
				p.Legend.Add(l, swatch)
			}
		}
	}

	for _, x := range interfaces {
		edge, err := plotter.NewLine(plotter.XYs{{X: x, Y: ylo}, {X: x, Y: yhi}})
		if err != nil {
			return err
		}
		edge.LineStyle.Width = vg.Points(0.5)
		edge.LineStyle.Color = color.Gray{Y: 160}
		edge.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(edge)
	}

	return save(p, filename, 8*vg.Inch, 6*vg.Inch)
}

// ExportCV writes the C-V curve of a sweep to an image file, with the
// oxide capacitance as a dashed reference when cox is positive.
func ExportCV(res *sweep.Result, cox float64, title, filename string) error {
	pts := slices.Collect(res.CV())
	if len(pts) == 0 {
		return fmt.Errorf("sweep has no converged points")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Gate bias (V)"
	p.Y.Label.Text = axisLabels[sweep.KindCapacitance]

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y * 1e6}
	}
	slices.SortFunc(xys, func(a, b plotter.XY) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})

	curve, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	curve.LineStyle.Width = vg.Points(2)
	curve.LineStyle.Color = bandColors[sweep.BandNone]
	p.Add(curve)

	marks, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	marks.GlyphStyle.Color = bandColors[sweep.BandNone]
	marks.GlyphStyle.Radius = vg.Points(2)
	marks.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(marks)

	if cox > 0 {
		ref, err := plotter.NewLine(plotter.XYs{
			{X: xys[0].X, Y: cox * 1e6},
			{X: xys[len(xys)-1].X, Y: cox * 1e6},
		})
		if err != nil {
			return err
		}
		ref.LineStyle.Color = color.Gray{Y: 128}
		ref.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(ref)
		p.Legend.Add("Cox", ref)
		p.Legend.Add("C", curve)
	}

	return save(p, filename, 8*vg.Inch, 6*vg.Inch)
}

// byLayer splits a series into runs of points from the same layer
func byLayer(pts []sweep.PlotPoint) [][]sweep.PlotPoint {
	var out [][]sweep.PlotPoint
	for i := 0; i < len(pts); {
		j := i + 1
		for j < len(pts) && pts[j].Layer == pts[i].Layer {
			j++
		}
		out = append(out, pts[i:j])
		i = j
	}
	return out
}

// save writes p in the format named by the file extension, defaulting to PNG
func save(p *plot.Plot, filename string, width, height vg.Length) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
