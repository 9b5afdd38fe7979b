package units

// Length is a non-negative distance, stored in centimeters
type Length struct {
	cm float64
}

// LengthFromCentimeters creates a Length from centimeters
func LengthFromCentimeters(v float64) (Length, error) {
	if err := nonNegative("length", v); err != nil {
		return Length{}, err
	}
	return Length{cm: v}, nil
}

// LengthFromMeters creates a Length from meters
func LengthFromMeters(v float64) (Length, error) {
	return LengthFromCentimeters(v * 1e2)
}

// LengthFromMicrometers creates a Length from micrometers
func LengthFromMicrometers(v float64) (Length, error) {
	return LengthFromCentimeters(v * 1e-4)
}

// LengthFromNanometers creates a Length from nanometers
func LengthFromNanometers(v float64) (Length, error) {
	return LengthFromCentimeters(v * 1e-7)
}

// LengthFromAngstroms creates a Length from angstroms
func LengthFromAngstroms(v float64) (Length, error) {
	return LengthFromCentimeters(v * 1e-8)
}

func (l Length) Centimeters() float64 { return l.cm }
func (l Length) Meters() float64      { return l.cm * 1e-2 }
func (l Length) Micrometers() float64 { return l.cm * 1e4 }
func (l Length) Nanometers() float64  { return l.cm * 1e7 }
func (l Length) Angstroms() float64   { return l.cm * 1e8 }

// IsZero reports whether the length is exactly zero
func (l Length) IsZero() bool { return l.cm == 0 }

// Add returns l + o
func (l Length) Add(o Length) Length { return Length{cm: l.cm + o.cm} }

// Sub returns l - o. It fails when the result would be negative.
func (l Length) Sub(o Length) (Length, error) {
	return LengthFromCentimeters(l.cm - o.cm)
}

// Scale multiplies the length by a non-negative dimensionless factor
func (l Length) Scale(f float64) (Length, error) {
	return LengthFromCentimeters(l.cm * f)
}

// Ratio returns the dimensionless quotient l / o
func (l Length) Ratio(o Length) float64 { return l.cm / o.cm }

func (l Length) Less(o Length) bool  { return l.cm < o.cm }
func (l Length) Equal(o Length) bool { return l.cm == o.cm }
