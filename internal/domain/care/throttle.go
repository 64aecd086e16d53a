package care

import (
	"time"

	"pet-care-simulator/internal/domain/pets"
)

// CountRecent cuenta las entradas de kind con timestamp en [now-window, now].
// El historial está en orden de inserción (cronológico), así que se recorre
// desde el final y se corta en la primera entrada más vieja que la ventana.
func CountRecent(history []pets.Activity, kind pets.ActivityKind, window time.Duration, now time.Time) int {
	from := now.Add(-window)
	n := 0
	for i := len(history) - 1; i >= 0; i-- {
		a := history[i]
		if a.At.Before(from) {
			break
		}
		if a.At.After(now) {
			continue
		}
		if a.Kind == kind {
			n++
		}
	}
	return n
}

// LastOfKind devuelve la entrada más reciente de kind, sin límite de antigüedad.
func LastOfKind(history []pets.Activity, kind pets.ActivityKind) (pets.Activity, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Kind == kind {
			return history[i], true
		}
	}
	return pets.Activity{}, false
}

// LastN devuelve hasta n entradas de kind, de la más vieja a la más nueva.
func LastN(history []pets.Activity, kind pets.ActivityKind, n int) []pets.Activity {
	if n <= 0 {
		return nil
	}
	out := make([]pets.Activity, 0, n)
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		if history[i].Kind == kind {
			out = append(out, history[i])
		}
	}
	// invertir para orden cronológico
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// compact aplica la política de retención.
// Conserva todo lo que esté dentro de la ventana más larga, las últimas
// monotonyStreak entradas de feed y la última de play; del resto descarta
// las más viejas hasta quedar en limit. limit <= 0 desactiva la retención.
func compact(history []pets.Activity, limit int, now time.Time) []pets.Activity {
	if limit <= 0 || len(history) <= limit {
		return history
	}

	keep := make([]bool, len(history))
	from := now.Add(-longestWindow)
	feeds, plays := 0, 0
	for i := len(history) - 1; i >= 0; i-- {
		a := history[i]
		if !a.At.Before(from) {
			keep[i] = true
		}
		switch a.Kind {
		case pets.ActivityFeed:
			if feeds < monotonyStreak {
				keep[i] = true
			}
			feeds++
		case pets.ActivityPlay:
			if plays < 1 {
				keep[i] = true
			}
			plays++
		}
	}

	// si lo protegido supera limit, el historial queda más largo que limit
	drop := len(history) - limit
	out := make([]pets.Activity, 0, limit)
	for i, a := range history {
		if drop > 0 && !keep[i] {
			drop--
			continue
		}
		out = append(out, a)
	}
	return out
}
