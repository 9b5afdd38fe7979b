package material

import "math"

// Below this |u| the exp(u)-u-1 term is evaluated by its Taylor series
const taylorThreshold = 1e-2

// chargeModel evaluates the exact one-dimensional Poisson charge relation
// for a uniformly doped semiconductor. Potentials are in volts, lengths in
// cm, charges in C/cm².
type chargeModel struct {
	vt        float64 // kT/q
	eps       float64 // εs
	debye     float64 // extrinsic Debye length
	minority  float64 // minority/majority equilibrium ratio, (ni/N)²
	amplitude float64 // √2·εs·vt/L_D
	nType     bool
}

// expm1mx returns exp(u) - u - 1 without cancellation near zero
func expm1mx(u float64) float64 {
	if math.Abs(u) < taylorThreshold {
		u2 := u * u
		return u2 * (1.0/2 + u*(1.0/6+u*(1.0/24+u*(1.0/120+u*(1.0/720)))))
	}
	return math.Expm1(u) - u
}

// majority returns the majority-carrier reduced potential for x = ψ/vt.
// Positive values push majority carriers toward the surface.
func (m chargeModel) majority(x float64) float64 {
	if m.nType {
		return x
	}
	return -x
}

// g returns F² as a function of x = ψ/vt
func (m chargeModel) g(x float64) float64 {
	u := m.majority(x)
	return expm1mx(u) + m.minority*expm1mx(-u)
}

// gPrime returns dF²/dx
func (m chargeModel) gPrime(x float64) float64 {
	u := m.majority(x)
	d := math.Expm1(u) - m.minority*math.Expm1(-u)
	if m.nType {
		return d
	}
	return -d
}

func (m chargeModel) y(psi float64) float64 {
	return math.Sqrt(m.g(psi / m.vt))
}

func (m chargeModel) charge(psi float64) float64 {
	if psi == 0 {
		return 0
	}
	return -math.Copysign(m.amplitude*m.y(psi), psi)
}

// capacitance returns -dQ/dψ
func (m chargeModel) capacitance(psi float64) float64 {
	x := psi / m.vt
	if x == 0 {
		return m.eps / m.debye * math.Sqrt(1+m.minority)
	}
	return m.amplitude * math.Abs(m.gPrime(x)) / (2 * math.Sqrt(m.g(x)) * m.vt)
}

// fieldMagnitude returns |E| = √2·(kT/q)/L_D·F(ψ)
func (m chargeModel) fieldMagnitude(psi float64) float64 {
	return m.amplitude * m.y(psi) / m.eps
}

// slope returns dψ/dd at depth d below the surface; band bending always
// relaxes toward the neutral bulk
func (m chargeModel) slope(psi float64) float64 {
	if psi == 0 {
		return 0
	}
	return -math.Copysign(m.fieldMagnitude(psi), psi)
}

// profile integrates ψ(d) from the surface to each requested depth (cm,
// ascending) with RK4, limiting each step to a tenth of the thermal voltage
func (m chargeModel) profile(surface float64, depths []float64) []float64 {
	out := make([]float64, len(depths))
	psi := surface
	d := 0.0

	for i, target := range depths {
		for steps := 0; d < target && psi != 0 && steps < 100000; steps++ {
			k1 := m.slope(psi)
			h := target - d
			if lim := 0.1 * m.vt / math.Abs(k1); h > lim {
				h = lim
			}
			k2 := m.slope(psi + 0.5*h*k1)
			k3 := m.slope(psi + 0.5*h*k2)
			k4 := m.slope(psi + h*k3)
			next := psi + h/6*(k1+2*k2+2*k3+k4)
			if next*psi <= 0 {
				next = 0
			}
			psi = next
			if h == target-d {
				d = target
			} else {
				d += h
			}
		}
		out[i] = psi
	}
	return out
}
