package eureka

import "math"

// Vector is a text embedding used for similarity-based strategy retrieval.
type Vector []float32

// Cosine returns the cosine similarity between two vectors. Mismatched
// lengths and zero vectors yield 0.
func (v Vector) Cosine(other Vector) float64 {
	if len(v) == 0 || len(v) != len(other) {
		return 0
	}

	var dot, normA, normB float64
	for i := range v {
		a := float64(v[i])
		b := float64(other[i])
		dot += a * b
		normA += a * a
		normB += b * b
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ToFloat32 returns the underlying []float32 slice.
func (v Vector) ToFloat32() []float32 {
	return v
}

// NewVector creates a Vector from a []float32 slice.
func NewVector(f []float32) Vector {
	return Vector(f)
}
