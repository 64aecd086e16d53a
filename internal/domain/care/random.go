package care

import "math/rand/v2"

// Random es la fuente de aleatoriedad de los efectos probabilísticos.
// Float64 devuelve un valor en [0, 1).
type Random interface {
	Float64() float64
}

// RandomFunc adapta una función a Random.
type RandomFunc func() float64

func (f RandomFunc) Float64() float64 { return f() }

// defaultRandom usa el generador global de math/rand/v2, seguro para
// uso concurrente entre mascotas distintas.
var defaultRandom Random = RandomFunc(rand.Float64)

func chance(r Random, p float64) bool {
	return r.Float64() < p
}
