package pets

import (
	"slices"
	"time"
)

// Personality modifica la magnitud o dirección de algunos efectos de cuidado.
// @Enum neutral, playful, lazy, aggressive, shy
type Personality string

const (
	PersonalityNeutral    Personality = "neutral"
	PersonalityPlayful    Personality = "playful"
	PersonalityLazy       Personality = "lazy"
	PersonalityAggressive Personality = "aggressive"
	PersonalityShy        Personality = "shy"
)

func (p Personality) Valid() bool {
	switch p {
	case PersonalityNeutral, PersonalityPlayful, PersonalityLazy, PersonalityAggressive, PersonalityShy:
		return true
	default:
		return false
	}
}

// Status de vida. Dead es terminal.
type Status string

const (
	StatusAlive Status = "alive"
	StatusDead  Status = "dead"
)

// ActivityKind identifica el tipo de entrada del historial.
type ActivityKind string

const (
	ActivityFeed      ActivityKind = "feed"
	ActivityWalk      ActivityKind = "walk"
	ActivityPlay      ActivityKind = "play"
	ActivityBath      ActivityKind = "bath"
	ActivityHeal      ActivityKind = "heal"
	ActivitySick      ActivityKind = "sick"
	ActivitySleep     ActivityKind = "sleep"
	ActivityDecay     ActivityKind = "decay"
	ActivityCustomize ActivityKind = "customize"
)

// Tier de customización.
type Tier string

const (
	TierFree Tier = "free"
	TierPaid Tier = "paid"
)

const (
	MinStat = 0
	MaxStat = 100
)

// Activity es una entrada del historial (append-only).
// Solo se completan los campos que aplican a Kind.
type Activity struct {
	ID   string       `json:"id"`
	Kind ActivityKind `json:"action"`
	At   time.Time    `json:"date"`

	Food     string   `json:"food,omitempty"`
	Disease  string   `json:"disease,omitempty"`
	Diseases []string `json:"diseases,omitempty"`
	Medicine string   `json:"medicine,omitempty"`
	Item     string   `json:"item,omitempty"`
	Tier     Tier     `json:"type,omitempty"`
	Hours    int      `json:"hours,omitempty"`
}

type Customization struct {
	Free []string `json:"free"`
	Paid []string `json:"paid"`
}

// Pet es la única entidad sobre la que opera el motor de cuidados.
type Pet struct {
	ID          string
	OwnerUserID string

	Name        string
	Type        string // perro, gato, dragón...
	SuperPower  string
	Personality Personality

	Health    int      // 0..100
	Happiness int      // 0..100
	Diseases  []string // multiset, puede repetir tags
	Status    Status
	DeathAt   *time.Time

	History       []Activity
	LastCareAt    *time.Time
	Customization Customization

	// Version para control optimista en el store.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) IsDead() bool {
	return p.Status == StatusDead
}

// Clone devuelve una copia profunda; los slices no se comparten con el original.
func (p Pet) Clone() Pet {
	out := p
	out.Diseases = slices.Clone(p.Diseases)
	out.History = make([]Activity, len(p.History))
	for i, a := range p.History {
		a.Diseases = slices.Clone(a.Diseases)
		out.History[i] = a
	}
	out.Customization = Customization{
		Free: slices.Clone(p.Customization.Free),
		Paid: slices.Clone(p.Customization.Paid),
	}
	if p.DeathAt != nil {
		t := *p.DeathAt
		out.DeathAt = &t
	}
	if p.LastCareAt != nil {
		t := *p.LastCareAt
		out.LastCareAt = &t
	}
	return out
}
