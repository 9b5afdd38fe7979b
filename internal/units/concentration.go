package units

// Concentration is a non-negative number density, stored per cubic centimeter
type Concentration struct {
	perCm3 float64
}

// ConcentrationFromPerCubicCentimeter creates a Concentration from cm⁻³
func ConcentrationFromPerCubicCentimeter(v float64) (Concentration, error) {
	if err := nonNegative("concentration", v); err != nil {
		return Concentration{}, err
	}
	return Concentration{perCm3: v}, nil
}

// ConcentrationFromPerCubicMeter creates a Concentration from m⁻³
func ConcentrationFromPerCubicMeter(v float64) (Concentration, error) {
	return ConcentrationFromPerCubicCentimeter(v * 1e-6)
}

func (c Concentration) PerCubicCentimeter() float64 { return c.perCm3 }
func (c Concentration) PerCubicMeter() float64      { return c.perCm3 * 1e6 }

func (c Concentration) Add(o Concentration) Concentration {
	return Concentration{perCm3: c.perCm3 + o.perCm3}
}

// Sub returns c - o. It fails when the result would be negative.
func (c Concentration) Sub(o Concentration) (Concentration, error) {
	return ConcentrationFromPerCubicCentimeter(c.perCm3 - o.perCm3)
}

func (c Concentration) Scale(f float64) (Concentration, error) {
	return ConcentrationFromPerCubicCentimeter(c.perCm3 * f)
}

// Ratio returns the dimensionless quotient c / o
func (c Concentration) Ratio(o Concentration) float64 { return c.perCm3 / o.perCm3 }

func (c Concentration) Less(o Concentration) bool  { return c.perCm3 < o.perCm3 }
func (c Concentration) Equal(o Concentration) bool { return c.perCm3 == o.perCm3 }
