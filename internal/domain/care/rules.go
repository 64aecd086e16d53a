package care

import (
	"time"

	"pet-care-simulator/internal/domain/pets"
)

// Comidas con efecto propio. Cualquier otro valor usa el efecto por defecto.
const (
	FoodDefault = "default"
	FoodPremium = "premium"
)

// Enfermedades que agregan los efectos secundarios automáticos.
const (
	DiseaseIndigestion = "indigestión"
	DiseaseSurfeit     = "empacho"
	DiseaseTired       = "cansado"
	DiseaseCold        = "resfriado"
	DiseaseSadness     = "tristeza"
)

// HealAll cura todas las enfermedades.
const HealAll = "all"

const (
	feedHealth         = 10
	feedHappiness      = 5
	premiumHealth      = 20
	premiumHappiness   = 15
	monotonyPenalty    = 10
	monotonyStreak     = 3
	overfeedChance     = 0.5
	feedWindow         = 10 * time.Minute
	feedLimit          = 3
	walkHappiness      = 10
	walkHealth         = 5
	lazyWalkWindow     = 60 * time.Minute
	lazyWalkLimit      = 2
	playHappiness      = 15
	playHealthCost     = 2
	playWindow         = 10 * time.Minute
	playLimit          = 3
	playfulNeglect     = 6 * time.Hour
	playfulPenalty     = 10
	bathHappiness      = 5
	bathWindow         = 30 * time.Minute
	bathLimit          = 2
	healHealth         = 15
	medicineHealth     = 20
	sleepHealth        = 25
	sleepHappiness     = 15
	sickHealthCost     = 20
	decayHealthPerHour = 2
	decayHappyPerHour  = 3
	neglectHours       = 24
	neglectChance      = 0.3
)

// longestWindow es la ventana más larga que consulta el throttle.
// La retención nunca descarta entradas dentro de ella.
const longestWindow = lazyWalkWindow

// medicines indica qué enfermedades cura cada medicina.
var medicines = map[string][]string{
	"Parazetamol": {DiseaseSurfeit, DiseaseIndigestion},
}

// positiveCare son las acciones que actualizan LastCareAt.
var positiveCare = map[pets.ActivityKind]bool{
	pets.ActivityFeed:  true,
	pets.ActivityWalk:  true,
	pets.ActivityPlay:  true,
	pets.ActivityBath:  true,
	pets.ActivitySleep: true,
}

func clamp(v int) int {
	if v < pets.MinStat {
		return pets.MinStat
	}
	if v > pets.MaxStat {
		return pets.MaxStat
	}
	return v
}
