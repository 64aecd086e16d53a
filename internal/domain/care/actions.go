package care

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/oops"

	"pet-care-simulator/internal/domain/pets"
	"pet-care-simulator/internal/ports/capabilities"
)

const (
	maxTagLen     = 50
	MaxDecayHours = 24 * 365
)

// sideEffect reemplaza el efecto de la acción por una enfermedad.
func sideEffect(t *txn, disease, msg string, fields Field) Result {
	t.infect(disease)
	r := t.result(msg, fields)
	r.SideEffect = disease
	return r
}

// Feed alimenta a la mascota. food vacío equivale a "default".
func (s *Service) Feed(ctx context.Context, petID, actorID, food string) (Result, error) {
	food = strings.TrimSpace(food)
	if food == "" {
		food = FoodDefault
	}

	return s.mutate(ctx, "feed", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if utf8.RuneCountInString(food) > maxTagLen {
			return Result{}, validationf(t.pet.ID, "food must be at most %d characters", maxTagLen)
		}

		if t.pet.Health >= pets.MaxStat && chance(s.rng, overfeedChance) {
			return sideEffect(t, DiseaseIndigestion, "overfed! the pet got indigestión", FieldHealth|FieldDiseases), nil
		}
		if CountRecent(t.pet.History, pets.ActivityFeed, feedWindow, t.now) >= feedLimit {
			return sideEffect(t, DiseaseSurfeit, "too much food in a short time! the pet got empacho", FieldHealth|FieldDiseases), nil
		}

		health, happiness := feedHealth, feedHappiness
		if food == FoodPremium {
			health, happiness = premiumHealth, premiumHappiness
		}

		if isMonotonous(t.pet.History, food) {
			t.addHappiness(-monotonyPenalty)
		}
		t.addHealth(health)
		t.addHappiness(happiness)

		t.record(pets.Activity{Kind: pets.ActivityFeed, Food: food})
		return t.result(fmt.Sprintf("pet fed with %s", food), FieldHealth|FieldHappiness), nil
	})
}

// isMonotonous: las últimas monotonyStreak comidas fueron todas food.
func isMonotonous(history []pets.Activity, food string) bool {
	last := LastN(history, pets.ActivityFeed, monotonyStreak)
	if len(last) < monotonyStreak {
		return false
	}
	for _, a := range last {
		if a.Food != food {
			return false
		}
	}
	return true
}

func (s *Service) Walk(ctx context.Context, petID, actorID string) (Result, error) {
	return s.mutate(ctx, "walk", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if t.pet.Personality == pets.PersonalityLazy &&
			CountRecent(t.pet.History, pets.ActivityWalk, lazyWalkWindow, t.now) >= lazyWalkLimit {
			t.addHappiness(-walkHappiness)
		} else {
			t.addHappiness(walkHappiness)
		}
		t.addHealth(walkHealth)

		t.record(pets.Activity{Kind: pets.ActivityWalk})
		return t.result("pet walked", FieldHealth|FieldHappiness), nil
	})
}

func (s *Service) Play(ctx context.Context, petID, actorID string) (Result, error) {
	return s.mutate(ctx, "play", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if CountRecent(t.pet.History, pets.ActivityPlay, playWindow, t.now) >= playLimit {
			return sideEffect(t, DiseaseTired, "too much play! the pet got cansado", FieldDiseases), nil
		}

		if t.pet.Personality == pets.PersonalityPlayful {
			last, ok := LastOfKind(t.pet.History, pets.ActivityPlay)
			if !ok || t.now.Sub(last.At) > playfulNeglect {
				t.addHappiness(-playfulPenalty)
			}
		}
		t.addHappiness(playHappiness)
		t.addHealth(-playHealthCost)

		t.record(pets.Activity{Kind: pets.ActivityPlay})
		return t.result("pet played", FieldHealth|FieldHappiness), nil
	})
}

func (s *Service) Bathe(ctx context.Context, petID, actorID string) (Result, error) {
	return s.mutate(ctx, "bath", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if CountRecent(t.pet.History, pets.ActivityBath, bathWindow, t.now) >= bathLimit {
			return sideEffect(t, DiseaseCold, "too many baths! the pet got resfriado", FieldDiseases), nil
		}

		t.addHappiness(bathHappiness)
		t.checkDeath()

		t.record(pets.Activity{Kind: pets.ActivityBath})
		return t.result("pet bathed", FieldHappiness), nil
	})
}

// Heal cura una enfermedad (una ocurrencia) o todas con disease vacío o "all".
func (s *Service) Heal(ctx context.Context, petID, actorID, disease string) (Result, error) {
	disease = strings.TrimSpace(disease)

	return s.mutate(ctx, "heal", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if disease == "" || disease == HealAll {
			cured := t.pet.Diseases
			t.pet.Diseases = []string{}
			t.addHealth(healHealth)

			t.record(pets.Activity{Kind: pets.ActivityHeal, Disease: HealAll, Diseases: slices.Clone(cured)})
			r := t.result(fmt.Sprintf("pet cured of all diseases: %s", strings.Join(cured, ", ")), FieldHealth|FieldDiseases)
			r.Cured = append([]string{}, cured...)
			return r, nil
		}

		i := slices.Index(t.pet.Diseases, disease)
		if i < 0 {
			return Result{}, validationf(t.pet.ID, "pet does not have disease %q to cure", disease)
		}
		t.pet.Diseases = slices.Delete(t.pet.Diseases, i, i+1)
		t.addHealth(healHealth)

		t.record(pets.Activity{Kind: pets.ActivityHeal, Disease: disease})
		r := t.result(fmt.Sprintf("pet cured of %s", disease), FieldHealth|FieldDiseases)
		r.Cured = []string{disease}
		return r, nil
	})
}

// HealWithMedicine quita todas las ocurrencias de lo que cura la medicina.
func (s *Service) HealWithMedicine(ctx context.Context, petID, actorID, medicine string) (Result, error) {
	medicine = strings.TrimSpace(medicine)

	return s.mutate(ctx, "medicine", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		curable, ok := medicines[medicine]
		if !ok {
			return Result{}, validationf(t.pet.ID, "medicine %q not recognized", medicine)
		}

		cured := make([]string, 0)
		remaining := make([]string, 0, len(t.pet.Diseases))
		for _, d := range t.pet.Diseases {
			if slices.Contains(curable, d) {
				cured = append(cured, d)
				continue
			}
			remaining = append(remaining, d)
		}
		if len(cured) == 0 {
			return Result{}, validationf(t.pet.ID, "pet has no disease that %s can cure", medicine)
		}

		t.pet.Diseases = remaining
		t.addHealth(medicineHealth)

		t.record(pets.Activity{Kind: pets.ActivityHeal, Medicine: medicine, Diseases: slices.Clone(cured)})
		r := t.result(fmt.Sprintf("%s applied, pet cured of: %s", medicine, strings.Join(cured, ", ")), FieldHealth|FieldDiseases)
		r.Cured = cured
		r.MedicineUsed = medicine
		return r, nil
	})
}

// Sleep solo aplica si la mascota está cansada.
func (s *Service) Sleep(ctx context.Context, petID, actorID string) (Result, error) {
	return s.mutate(ctx, "sleep", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if !slices.Contains(t.pet.Diseases, DiseaseTired) {
			return Result{}, validationf(t.pet.ID, "pet is not tired and does not need to sleep")
		}

		before := len(t.pet.Diseases)
		t.pet.Diseases = slices.DeleteFunc(t.pet.Diseases, func(d string) bool { return d == DiseaseTired })
		cured := make([]string, before-len(t.pet.Diseases))
		for i := range cured {
			cured[i] = DiseaseTired
		}

		t.addHealth(sleepHealth)
		t.addHappiness(sleepHappiness)

		t.record(pets.Activity{Kind: pets.ActivitySleep})
		r := t.result("pet slept and recovered from being tired", FieldHealth|FieldHappiness|FieldDiseases)
		r.Cured = cured
		return r, nil
	})
}

// MakeSick es una acción administrativa. A diferencia de los efectos
// secundarios, no duplica la enfermedad si ya existe.
func (s *Service) MakeSick(ctx context.Context, petID, actorID, disease string) (Result, error) {
	disease = strings.TrimSpace(disease)

	return s.mutate(ctx, "sick", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if disease == "" {
			return Result{}, validationf(t.pet.ID, "disease is required")
		}
		if utf8.RuneCountInString(disease) > maxTagLen {
			return Result{}, validationf(t.pet.ID, "disease must be at most %d characters", maxTagLen)
		}

		if !slices.Contains(t.pet.Diseases, disease) {
			t.pet.Diseases = append(t.pet.Diseases, disease)
		}
		t.addHealth(-sickHealthCost)

		t.record(pets.Activity{Kind: pets.ActivitySick, Disease: disease})
		return t.result(fmt.Sprintf("pet got sick with %s", disease), FieldHealth|FieldHappiness|FieldDiseases), nil
	})
}

// Decay simula hours horas de abandono. Con alguna enfermedad el decaimiento se duplica.
func (s *Service) Decay(ctx context.Context, petID, actorID string, hours int) (Result, error) {
	return s.mutate(ctx, "decay", petID, actorID, func(_ context.Context, t *txn) (Result, error) {
		if hours < 1 || hours > MaxDecayHours {
			return Result{}, validationf(t.pet.ID, "hours must be between 1 and %d", MaxDecayHours)
		}

		healthDecay := decayHealthPerHour * hours
		happinessDecay := decayHappyPerHour * hours
		if len(t.pet.Diseases) > 0 {
			healthDecay *= 2
			happinessDecay *= 2
		}

		t.addHealth(-healthDecay)
		t.addHappiness(-happinessDecay)
		t.record(pets.Activity{Kind: pets.ActivityDecay, Hours: hours})

		var effect string
		if hours >= neglectHours && chance(s.rng, neglectChance) {
			t.infect(DiseaseSadness)
			effect = DiseaseSadness
		}

		r := t.result(fmt.Sprintf("stats decayed for %dh", hours), FieldHealth|FieldHappiness|FieldDiseases)
		r.SideEffect = effect
		return r, nil
	})
}

// Customize agrega un item cosmético. No toca los vitales.
func (s *Service) Customize(ctx context.Context, petID, actorID, item string, tier pets.Tier) (Result, error) {
	item = strings.TrimSpace(item)
	if tier == "" {
		tier = pets.TierFree
	}

	return s.mutate(ctx, "customize", petID, actorID, func(ctx context.Context, t *txn) (Result, error) {
		if item == "" {
			return Result{}, validationf(t.pet.ID, "item is required")
		}
		if utf8.RuneCountInString(item) > maxTagLen {
			return Result{}, validationf(t.pet.ID, "item must be at most %d characters", maxTagLen)
		}

		switch tier {
		case pets.TierFree:
			t.pet.Customization.Free = append(t.pet.Customization.Free, item)
		case pets.TierPaid:
			ok, err := s.canPay(ctx, actorID)
			if err != nil {
				return Result{}, err
			}
			if !ok {
				return Result{}, validationf(t.pet.ID, "insufficient balance for paid customization")
			}
			t.pet.Customization.Paid = append(t.pet.Customization.Paid, item)
		default:
			return Result{}, validationf(t.pet.ID, "invalid customization type %q", tier)
		}

		t.record(pets.Activity{Kind: pets.ActivityCustomize, Item: item, Tier: tier})
		return t.result(fmt.Sprintf("pet customized with %s (%s)", item, tier), FieldCustomization), nil
	})
}

func (s *Service) canPay(ctx context.Context, actorID string) (bool, error) {
	if s.caps == nil {
		return false, nil
	}
	ok, err := s.caps.HasFeature(ctx, capabilities.CapabilityCheck{
		UserID:  actorID,
		Feature: capabilities.FeaturePaidCustomization,
	})
	if err != nil {
		return false, oops.
			With("actor_id", actorID, "feature", capabilities.FeaturePaidCustomization).
			Wrapf(err, "resolve capability")
	}
	return ok, nil
}
