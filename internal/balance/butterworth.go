package balance

import "math"

// biquad holds the transfer-function coefficients of a 2nd-order IIR
// section, normalized so a0 = 1.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// lowPassBiquad designs a 2nd-order Butterworth low-pass section for
// the given cutoff and sample rate via the bilinear transform. The
// cutoff must lie below the Nyquist frequency.
func lowPassBiquad(cutoffHz, sampleRate float64) biquad {
	k := math.Tan(math.Pi * cutoffHz / sampleRate)
	norm := 1.0 / (1.0 + math.Sqrt2*k + k*k)
	b0 := k * k * norm
	return biquad{
		b0: b0,
		b1: 2 * b0,
		b2: b0,
		a1: 2 * (k*k - 1) * norm,
		a2: (1 - math.Sqrt2*k + k*k) * norm,
	}
}

// apply runs the section over data in direct form II transposed,
// returning a new slice.
func (q biquad) apply(data []float64) []float64 {
	out := make([]float64, len(data))
	var z1, z2 float64
	for i, x := range data {
		y := q.b0*x + z1
		z1 = q.b1*x - q.a1*y + z2
		z2 = q.b2*x - q.a2*y
		out[i] = y
	}
	return out
}

// reverse flips a slice in place.
func reverse(data []float64) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}

// filtFilt applies the section forward and backward so the net result
// has zero phase lag. The input is edge-padded by up to ten samples to
// suppress startup transients at the ends of the series.
func filtFilt(q biquad, data []float64) []float64 {
	n := len(data)
	if n < 2 {
		out := make([]float64, n)
		copy(out, data)
		return out
	}

	pad := n - 1
	if pad > 10 {
		pad = 10
	}

	padded := make([]float64, 0, n+2*pad)
	for i := 0; i < pad; i++ {
		padded = append(padded, data[0])
	}
	padded = append(padded, data...)
	for i := 0; i < pad; i++ {
		padded = append(padded, data[n-1])
	}

	fwd := q.apply(padded)
	reverse(fwd)
	back := q.apply(fwd)
	reverse(back)

	return back[pad : pad+n]
}

// LowPassFilter smooths a series with a zero-phase 2nd-order
// Butterworth low-pass filter. A cutoff at or above Nyquist leaves the
// series unchanged (nothing to suppress).
func LowPassFilter(data []float64, cutoffHz, sampleRate float64) []float64 {
	if cutoffHz <= 0 || sampleRate <= 0 || cutoffHz >= sampleRate/2 {
		out := make([]float64, len(data))
		copy(out, data)
		return out
	}
	return filtFilt(lowPassBiquad(cutoffHz, sampleRate), data)
}
