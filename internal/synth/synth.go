// Package synth renders quantized sine tones.
package synth

import "math"

// Defaults for generated tones.
const (
	SampleRate         = 44100
	DurationSeconds    = 20.0
	ReferenceAmplitude = 20
)

// NumSamples returns round(sampleRate * duration).
func NumSamples(sampleRate int, duration float64) int {
	return int(math.Round(float64(sampleRate) * duration))
}

// Synthesize returns amplitude*sin(2*pi*frequency*t) sampled at sampleRate
// for duration seconds. Each value is truncated toward zero and stored in
// a signed byte by keeping its low 8 bits, so amplitudes of 128 or more
// wrap around instead of clipping.
func Synthesize(frequency, amplitude float64, sampleRate int, duration float64) []int8 {
	n := NumSamples(sampleRate, duration)
	if n <= 0 {
		return nil
	}

	omega := 2 * math.Pi * frequency
	rate := float64(sampleRate)
	samples := make([]int8, n)
	for i := range samples {
		t := float64(i) / rate
		samples[i] = Quantize(amplitude * math.Sin(omega*t))
	}
	return samples
}

// Quantize truncates v toward zero and keeps the low 8 bits.
func Quantize(v float64) int8 {
	return int8(int64(v))
}
