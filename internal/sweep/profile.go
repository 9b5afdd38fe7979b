package sweep

import (
	"fmt"
	"iter"
	"strings"

	"github.com/alexiusacademia/gomoscap/internal/material"
	"github.com/alexiusacademia/gomoscap/internal/structure"
	"github.com/alexiusacademia/gomoscap/internal/units"
)

// Kind selects the quantity carried by a PlotPoint
type Kind int

const (
	KindEnergy        Kind = iota // eV, relative to the vacuum level of the bulk
	KindPotential                 // V, relative to the bulk
	KindElectricField             // V/cm, positive toward the substrate
	KindChargeDensity             // C/cm²
	KindCapacitance               // F/cm², C-V curves only
)

var kindNames = map[Kind]string{
	KindEnergy:        "energy",
	KindPotential:     "potential",
	KindElectricField: "field",
	KindChargeDensity: "charge",
	KindCapacitance:   "capacitance",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names printed by Kind.String
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown plot kind %q (want energy, potential, field, charge or capacitance)", s)
}

// Band names an energy level of a band diagram
type Band int

const (
	BandNone Band = iota
	BandVacuum
	BandConduction
	BandValence
	BandIntrinsic
	BandFermi
)

// Bands lists the energy levels in drawing order
var Bands = []Band{BandVacuum, BandConduction, BandValence, BandIntrinsic, BandFermi}

func (b Band) String() string {
	switch b {
	case BandVacuum:
		return "vacuum"
	case BandConduction:
		return "conduction"
	case BandValence:
		return "valence"
	case BandIntrinsic:
		return "intrinsic"
	case BandFermi:
		return "fermi"
	default:
		return ""
	}
}

// ParseBand accepts the names printed by Band.String
func ParseBand(s string) (Band, error) {
	for _, b := range Bands {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return BandNone, fmt.Errorf("unknown band %q (want vacuum, conduction, valence, intrinsic or fermi)", s)
}

// PlotPoint is one sample of a profile or C-V curve.
// X is depth in nm from the outer face of the gate, or bias in V for C-V.
type PlotPoint struct {
	X     float64
	Y     float64
	Kind  Kind
	Band  Band
	Layer int // -1 for C-V points
}

// segment is one layer of a solved stack sampled along depth
type segment struct {
	index  int
	layer  material.Layer
	x0     float64   // nm
	depth  []float64 // nm from the gate-side face
	psi    []float64 // V
	field  []float64 // V/cm
	charge []float64 // C/cm²
}

// Profile returns the spatial profile of kind across a solved structure,
// walking from the gate toward the substrate. KindEnergy yields every band
// in turn. The sequence can be iterated any number of times.
func Profile(s *structure.Structure, kind Kind, samples int) (iter.Seq[PlotPoint], error) {
	if kind == KindEnergy {
		var seqs []iter.Seq[PlotPoint]
		for _, b := range Bands {
			seq, err := BandProfile(s, b, samples)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, seq)
		}
		return concat(seqs), nil
	}
	if kind == KindCapacitance {
		return nil, fmt.Errorf("capacitance has no spatial profile; use Result.CV")
	}

	segs, err := trace(s, samples)
	if err != nil {
		return nil, err
	}
	return func(yield func(PlotPoint) bool) {
		for _, seg := range segs {
			values := seg.psi
			switch kind {
			case KindElectricField:
				values = seg.field
			case KindChargeDensity:
				values = seg.charge
			}
			for j, d := range seg.depth {
				if !yield(PlotPoint{X: seg.x0 + d, Y: values[j], Kind: kind, Layer: seg.index}) {
					return
				}
			}
		}
	}, nil
}

// BandProfile returns one energy level across a solved structure. Levels
// that do not exist in a layer (band edges in a metal, the Fermi level in an
// insulator) are omitted for that layer.
func BandProfile(s *structure.Structure, band Band, samples int) (iter.Seq[PlotPoint], error) {
	segs, err := trace(s, samples)
	if err != nil {
		return nil, err
	}
	levels := make([]*bandOffset, len(segs))
	for i, seg := range segs {
		if levels[i], err = bandLevel(seg.layer, band); err != nil {
			return nil, err
		}
	}

	return func(yield func(PlotPoint) bool) {
		for i, seg := range segs {
			lv := levels[i]
			if lv == nil {
				continue
			}
			for j, d := range seg.depth {
				y := -seg.psi[j] - lv.offset
				if lv.flat {
					y = -lv.offset
				}
				if !yield(PlotPoint{X: seg.x0 + d, Y: y, Kind: KindEnergy, Band: band, Layer: seg.index}) {
					return
				}
			}
		}
	}, nil
}

type bandOffset struct {
	offset float64
	flat   bool
}

// bandLevel returns the depth of band below the local vacuum level of a
// layer, or nil when the layer has no such level
func bandLevel(l material.Layer, band Band) (*bandOffset, error) {
	if band == BandVacuum {
		return &bandOffset{}, nil
	}
	switch layer := l.(type) {
	case *material.Metal:
		if band != BandFermi {
			return nil, nil
		}
		wf, err := layer.WorkFunction()
		if err != nil {
			return nil, err
		}
		return &bandOffset{offset: wf.ElectronVolts()}, nil
	case *material.Dielectric:
		return edges(band, layer.ElectronAffinity(), layer.BandGap()), nil
	case *material.Semiconductor:
		switch band {
		case BandIntrinsic:
			return &bandOffset{offset: layer.EnergyFromVacuumToEfi().ElectronVolts()}, nil
		case BandFermi:
			// flat through the layer at its bulk value
			wf, err := layer.WorkFunction()
			if err != nil {
				return nil, err
			}
			return &bandOffset{offset: wf.ElectronVolts(), flat: true}, nil
		}
		return edges(band, layer.ElectronAffinity(), layer.BandGap()), nil
	}
	return nil, nil
}

func edges(band Band, affinity, gap units.Energy) *bandOffset {
	switch band {
	case BandConduction:
		return &bandOffset{offset: affinity.ElectronVolts()}
	case BandValence:
		return &bandOffset{offset: affinity.Add(gap).ElectronVolts()}
	}
	return nil
}

func trace(s *structure.Structure, samples int) ([]segment, error) {
	res := s.Result()
	if res == nil {
		return nil, errUnsolved
	}
	gate, err := s.GateIndex()
	if err != nil {
		return nil, err
	}
	if samples < 2 {
		samples = DefaultSamples
	}
	layers := s.Layers()
	last := len(layers) - 1
	step := 1
	if gate == last {
		step = -1
	}

	segs := make([]segment, 0, len(layers))
	var x float64
	for i := gate; i >= 0 && i <= last; i += step {
		lp := res.LayerPotentials[i]
		t := layers[i].Thickness().Nanometers()
		seg := segment{index: i, layer: layers[i], x0: x}

		if sc, ok := layers[i].(*material.Semiconductor); ok {
			if err := sampleSemiconductor(&seg, sc, lp.GateSide, samples); err != nil {
				return nil, err
			}
		} else {
			var q float64
			switch {
			case i == gate:
				q = res.GateCharge.CoulombsPerSquareCentimeter()
			case i == last-gate && lp.Kind == material.KindMetal:
				q = res.ChargeDensity.CoulombsPerSquareCentimeter()
			}
			f := lp.Field.VoltsPerCentimeter()
			seg.depth = []float64{0, t}
			seg.psi = []float64{lp.GateSide.Volts(), lp.BaseSide.Volts()}
			seg.field = []float64{f, f}
			seg.charge = []float64{q, q}
		}
		segs = append(segs, seg)
		x += t
	}
	return segs, nil
}

func sampleSemiconductor(seg *segment, sc *material.Semiconductor, surface units.ElectricPotential, samples int) error {
	t := sc.Thickness()
	depths := make([]units.Length, samples)
	seg.depth = make([]float64, samples)
	for j := range depths {
		d, err := t.Scale(float64(j) / float64(samples-1))
		if err != nil {
			return err
		}
		depths[j] = d
		seg.depth[j] = d.Nanometers()
	}

	psi, err := sc.PotentialProfile(surface, depths)
	if err != nil {
		return err
	}
	seg.psi = make([]float64, samples)
	seg.field = make([]float64, samples)
	seg.charge = make([]float64, samples)
	for j, p := range psi {
		f, err := sc.ElectricField(p)
		if err != nil {
			return err
		}
		q, err := sc.ChargeDensity(p)
		if err != nil {
			return err
		}
		seg.psi[j] = p.Volts()
		seg.field[j] = f.VoltsPerCentimeter()
		seg.charge[j] = q.CoulombsPerSquareCentimeter()
	}
	return nil
}

func concat(seqs []iter.Seq[PlotPoint]) iter.Seq[PlotPoint] {
	return func(yield func(PlotPoint) bool) {
		for _, seq := range seqs {
			for p := range seq {
				if !yield(p) {
					return
				}
			}
		}
	}
}
