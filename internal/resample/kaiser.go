package resample

import (
	"math"

	"github.com/tphakala/simd/f64"
)

// Chebyshev coefficients for I₀(x), Abramowitz & Stegun 9.8.1 and 9.8.2.
const (
	besselSmallArg = 3.75

	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2

	besselI0AsympCoeff0 = 0.39894228
	besselI0AsympCoeff1 = 0.1328592e-1
	besselI0AsympCoeff2 = 0.225319e-2
	besselI0AsympCoeff3 = -0.157565e-2
	besselI0AsympCoeff4 = 0.916281e-2
	besselI0AsympCoeff5 = -0.2057706e-1
	besselI0AsympCoeff6 = 0.2635537e-1
	besselI0AsympCoeff7 = -0.1647633e-1
	besselI0AsympCoeff8 = 0.392377e-2
)

// Kaiser & Schafer β formula constants.
const (
	kaiserAttHigh        = 50.0
	kaiserAttMedium      = 21.0
	kaiserBetaHighCoeff  = 0.1102
	kaiserBetaHighOffset = 8.7
	kaiserBetaMedCoeff1  = 0.5842
	kaiserBetaMedPower   = 0.4
	kaiserBetaMedCoeff2  = 0.07886

	sincZeroThreshold = 1e-10
)

// besselI0 computes the modified Bessel function of the first kind, order zero.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < besselSmallArg {
		t := x / besselSmallArg
		t *= t
		return 1.0 + t*(besselI0Coeff1+t*(besselI0Coeff2+t*(besselI0Coeff3+
			t*(besselI0Coeff4+t*(besselI0Coeff5+t*besselI0Coeff6)))))
	}

	t := besselSmallArg / ax
	p := besselI0AsympCoeff0 + t*(besselI0AsympCoeff1+t*(besselI0AsympCoeff2+
		t*(besselI0AsympCoeff3+t*(besselI0AsympCoeff4+t*(besselI0AsympCoeff5+
			t*(besselI0AsympCoeff6+t*(besselI0AsympCoeff7+t*besselI0AsympCoeff8)))))))
	return math.Exp(ax) * p / math.Sqrt(ax)
}

// kaiserBeta returns the window β for a stopband attenuation in dB.
func kaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighCoeff * (attenuation - kaiserBetaHighOffset)
	case attenuation >= kaiserAttMedium:
		d := attenuation - kaiserAttMedium
		return kaiserBetaMedCoeff1*math.Pow(d, kaiserBetaMedPower) + kaiserBetaMedCoeff2*d
	default:
		return 0
	}
}

// kaiserWindow returns a symmetric Kaiser window of the given length.
func kaiserWindow(length int, beta float64) []float64 {
	if length < 1 {
		return nil
	}
	w := make([]float64, length)
	if length == 1 {
		w[0] = 1
		return w
	}
	alpha := float64(length-1) / 2
	i0Beta := besselI0(beta)
	for n := range length {
		x := (float64(n) - alpha) / alpha
		w[n] = besselI0(beta*math.Sqrt(1-x*x)) / i0Beta
	}
	return w
}

// lowPass designs a Kaiser-windowed sinc with cutoff in cycles per sample
// and DC gain.
func lowPass(numTaps int, cutoff, attenuation, gain float64) []float64 {
	window := kaiserWindow(numTaps, kaiserBeta(attenuation))
	h := make([]float64, numTaps)
	center := float64(numTaps-1) / 2
	for n := range numTaps {
		x := float64(n) - center
		var s float64
		if math.Abs(x) < sincZeroThreshold {
			s = 2 * cutoff
		} else {
			s = math.Sin(2*math.Pi*cutoff*x) / (math.Pi * x)
		}
		h[n] = s * window[n]
	}

	if sum := f64.Sum(h); math.Abs(sum) > sincZeroThreshold {
		f64.Scale(h, h, gain/sum)
	}
	return h
}
