package audio

import "math"

// ConvertFloat32ToLinear16 converts normalized float samples in [-1, 1] to
// little-endian signed 16-bit PCM.
//
// Negative samples are scaled by 0x8000 and positive samples by 0x7FFF.
// The two ranges are not symmetric in 16-bit signed integers, so using a
// shared divisor would shift the zero point; paired decoders rely on this
// exact mapping.
func ConvertFloat32ToLinear16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, sample := range samples {
		v := saturateSample(sample)
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}

func saturateSample(sample float32) int16 {
	clipped := math.Max(-1, math.Min(1, float64(sample)))
	if clipped < 0 {
		return int16(clipped * 0x8000)
	}
	return int16(clipped * 0x7FFF)
}

// Linear16Samples reinterprets little-endian signed 16-bit PCM bytes as
// samples. A trailing odd byte is ignored.
func Linear16Samples(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
	}
	return samples
}
