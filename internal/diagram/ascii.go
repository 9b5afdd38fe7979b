// Package diagram renders solved stacks, spatial profiles and C-V curves,
// either as terminal text or as PNG/SVG/PDF images.
package diagram

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/sweep"
)

// ASCIIOptions sizes a terminal plot
type ASCIIOptions struct {
	Width   int // columns of plot area, 0 for 72
	Height  int // rows, 0 for 18
	Caption string
}

func (o ASCIIOptions) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 72
	}
	if h <= 0 {
		h = 18
	}
	return w, h
}

// Series is one curve of a plot, sorted by X
type Series struct {
	Band   sweep.Band
	Points []sweep.PlotPoint
}

// Label names the series in legends
func (s Series) Label() string {
	if s.Band == sweep.BandNone {
		return ""
	}
	return s.Band.String()
}

// Split groups a profile into one series per band, in order of appearance
func Split(seq iter.Seq[sweep.PlotPoint]) []Series {
	var out []Series
	index := map[sweep.Band]int{}
	for p := range seq {
		i, ok := index[p.Band]
		if !ok {
			i = len(out)
			index[p.Band] = i
			out = append(out, Series{Band: p.Band})
		}
		out[i].Points = append(out[i].Points, p)
	}
	return out
}

// DrawProfile plots every series against depth. Values between layers a
// series does not cover are left blank.
func DrawProfile(series []Series, opts ASCIIOptions) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("nothing to plot")
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, p := range s.Points {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
	}
	if !(hi > lo) {
		return "", fmt.Errorf("profile spans no depth")
	}

	width, height := opts.size()
	data := make([][]float64, len(series))
	var legend []string
	for i, s := range series {
		data[i] = Resample(s.Points, lo, hi, width)
		if l := s.Label(); l != "" {
			legend = append(legend, l)
		}
	}

	caption := opts.Caption
	if len(legend) > 0 {
		caption = strings.TrimSpace(fmt.Sprintf("%s [%s]", caption, strings.Join(legend, ", ")))
	}
	caption = strings.TrimSpace(fmt.Sprintf("%s  x: %.3g..%.3g nm", caption, lo, hi))

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	), nil
}

// DrawCV plots capacitance in µF/cm² against bias
func DrawCV(res *sweep.Result, opts ASCIIOptions) (string, error) {
	pts := slices.Collect(res.CV())
	if len(pts) < 2 {
		return "", fmt.Errorf("need at least two converged points, have %d", len(pts))
	}
	if pts[0].X > pts[len(pts)-1].X {
		slices.Reverse(pts)
	}

	width, height := opts.size()
	for i := range pts {
		pts[i].Y *= 1e6
		pts[i].Layer = 0
	}
	data := Resample(pts, pts[0].X, pts[len(pts)-1].X, width)

	caption := opts.Caption
	if caption == "" {
		caption = fmt.Sprintf("C (µF/cm²) vs V, %.3g..%.3g V", pts[0].X, pts[len(pts)-1].X)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	), nil
}

// Resample interpolates pts onto n evenly spaced depths in [lo, hi].
// Interpolation never crosses from one layer to another, so a series that
// skips a layer leaves NaN gaps there.
func Resample(pts []sweep.PlotPoint, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := lo
		if n > 1 {
			x = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		out[i] = interpolate(pts, x)
	}
	return out
}

func interpolate(pts []sweep.PlotPoint, x float64) float64 {
	for j := 0; j+1 < len(pts); j++ {
		a, b := pts[j], pts[j+1]
		if a.Layer != b.Layer || x < a.X || x > b.X {
			continue
		}
		if b.X == a.X {
			return a.Y
		}
		t := (x - a.X) / (b.X - a.X)
		return a.Y + t*(b.Y-a.Y)
	}
	return math.NaN()
}

// DrawStack draws the layers of a solved structure from the gate down, with
// the potential at each interface and the field inside each layer.
func DrawStack(s *structure.Structure) string {
	var sb strings.Builder
	const width = 34

	res := s.Result()
	potentials := map[int]structure.LayerPotential{}
	if res != nil {
		for _, lp := range res.LayerPotentials {
			potentials[lp.Index] = lp
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s STACK  (%s)\n", s.Kind(), s.State()))
	sb.WriteString("  " + strings.Repeat("─", width+2) + "\n")

	layers := s.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		lp, solved := potentials[i]

		fill := " "
		switch l.Kind() {
		case material.KindMetal:
			fill = "▓"
		case material.KindDielectric:
			fill = "░"
		}

		if i == len(layers)-1 {
			sb.WriteString(fmt.Sprintf("  ┌%s┐", strings.Repeat("─", width)))
			if solved {
				sb.WriteString(fmt.Sprintf(" ◄ %+.4f V", lp.GateSide.Volts()))
			}
			sb.WriteString("\n")
		}

		label := fmt.Sprintf(" %d %s %.3g nm", i, l.Kind(), l.Thickness().Nanometers())
		if len([]rune(label)) > width {
			label = string([]rune(label)[:width])
		}
		pad := width - len([]rune(label))
		sb.WriteString(fmt.Sprintf("  │%s%s│", label, strings.Repeat(fill, pad)))
		if solved && l.Kind() != material.KindMetal {
			sb.WriteString(fmt.Sprintf("   E = %.3e V/cm", lp.Field.VoltsPerCentimeter()))
		}
		sb.WriteString("\n")

		if i > 0 {
			sb.WriteString(fmt.Sprintf("  ├%s┤", strings.Repeat("─", width)))
		} else {
			sb.WriteString(fmt.Sprintf("  └%s┘", strings.Repeat("─", width)))
		}
		if solved {
			sb.WriteString(fmt.Sprintf(" ◄ %+.4f V", lp.BaseSide.Volts()))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n  Legend: ▓▓▓ metal   ░░░ dielectric   blank semiconductor\n")
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// padRight pads by runes; %-*s counts bytes and misaligns µ and ²
func padRight(s string, n int) string {
	if d := n - len([]rune(s)); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
