package care

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pet-care-simulator/internal/domain/pets"
	"pet-care-simulator/internal/platform/logger"
	"pet-care-simulator/internal/ports/capabilities"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 10 * time.Millisecond
)

// Service es el Care Engine: una operación por tipo de acción.
type Service struct {
	repo    pets.Repository
	rng     Random
	now     func() time.Time
	locks   *keyedMutex
	log     logger.Logger
	metrics *Metrics
	caps    capabilities.CapabilitiesResolver
	tracer  trace.Tracer

	historyLimit int
	maxRetries   uint64
	retryDelay   time.Duration
}

type Option func(*Service)

func WithRandom(r Random) Option {
	return func(s *Service) {
		if r != nil {
			s.rng = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCapabilities define quién decide si un usuario puede customizar con tier paid.
// Sin resolver, paid siempre se rechaza (no hay economía).
func WithCapabilities(c capabilities.CapabilitiesResolver) Option {
	return func(s *Service) { s.caps = c }
}

// WithHistoryLimit activa la retención del historial. 0 = sin límite.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

func WithMaxRetries(n uint64) Option {
	return func(s *Service) { s.maxRetries = n }
}

func NewService(repo pets.Repository, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		rng:        defaultRandom,
		now:        time.Now,
		locks:      newKeyedMutex(),
		log:        logger.Nop(),
		tracer:     otel.Tracer("pet-care-simulator/care"),
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// txn acumula los cambios de una operación sobre una copia de la mascota.
type txn struct {
	pet     *pets.Pet
	now     time.Time
	died    bool
	effects []string
}

func (t *txn) addHealth(delta int) {
	t.pet.Health = clamp(t.pet.Health + delta)
	t.checkDeath()
}

func (t *txn) addHappiness(delta int) {
	t.pet.Happiness = clamp(t.pet.Happiness + delta)
}

// checkDeath aplica la transición alive -> dead en cuanto health llega a 0.
func (t *txn) checkDeath() {
	if t.pet.Health == 0 && t.pet.Status != pets.StatusDead {
		t.pet.Status = pets.StatusDead
		at := t.now
		t.pet.DeathAt = &at
		t.died = true
	}
}

func (t *txn) record(a pets.Activity) {
	a.ID = ulid.MustNew(ulid.Timestamp(t.now), ulid.DefaultEntropy()).String()
	a.At = t.now
	t.pet.History = append(t.pet.History, a)
	if positiveCare[a.Kind] {
		at := t.now
		t.pet.LastCareAt = &at
	}
}

// infect agrega la enfermedad sin deduplicar y registra una entrada sick.
func (t *txn) infect(disease string) {
	t.pet.Diseases = append(t.pet.Diseases, disease)
	t.record(pets.Activity{Kind: pets.ActivitySick, Disease: disease})
	t.effects = append(t.effects, disease)
}

func (t *txn) result(msg string, fields Field) Result {
	return Result{
		Message:       msg,
		Fields:        fields,
		Health:        t.pet.Health,
		Happiness:     t.pet.Happiness,
		Diseases:      append([]string{}, t.pet.Diseases...),
		Customization: pets.Customization{
			Free: slices.Clone(t.pet.Customization.Free),
			Paid: slices.Clone(t.pet.Customization.Paid),
		},
		Died:          t.died,
	}
}

type mutation func(ctx context.Context, t *txn) (Result, error)

// mutate ejecuta load -> validar -> calcular -> persistir con la mascota
// bloqueada. Si el store detecta un conflicto de versión, recarga y recalcula.
func (s *Service) mutate(ctx context.Context, action, petID, actorID string, fn mutation) (Result, error) {
	petID = strings.TrimSpace(petID)

	ctx, span := s.tracer.Start(ctx, "care."+action, trace.WithAttributes(
		attribute.String("pet.id", petID),
		attribute.String("care.action", action),
	))
	defer span.End()

	log := s.log.WithContext(ctx).With(map[string]any{"pet_id": petID, "action": action})

	unlock := s.locks.Lock(petID)
	defer unlock()

	var (
		res     Result
		effects []string
		attempt int
	)

	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewConstant(s.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.metrics.retry()
			log.Warn("version conflict, retrying", map[string]any{"attempt": attempt})
		}

		current, err := s.loadOwned(ctx, petID, actorID)
		if err != nil {
			return err
		}
		if current.IsDead() {
			return alreadyDead(petID)
		}

		work := current.Clone()
		t := &txn{pet: &work, now: s.now()}

		r, err := fn(ctx, t)
		if err != nil {
			return err
		}

		work.History = compact(work.History, s.historyLimit, t.now)
		work.UpdatedAt = t.now

		if err := s.repo.Update(ctx, work); err != nil {
			switch {
			case errors.Is(err, pets.ErrVersionConflict):
				return retry.RetryableError(err)
			case errors.Is(err, pets.ErrNotFound):
				return notFound(petID)
			default:
				return oops.With("pet_id", petID, "action", action).Wrap(err)
			}
		}

		res = r
		effects = t.effects
		return nil
	})
	if err != nil {
		if errors.Is(err, pets.ErrVersionConflict) {
			err = conflict(petID, err)
		}
		s.metrics.action(action, "rejected")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !isClientError(err) {
			log.Error("care action failed", map[string]any{"error": err.Error()})
		}
		return Result{}, err
	}

	outcome := "ok"
	if len(effects) > 0 {
		outcome = "side_effect"
	}
	s.metrics.action(action, outcome)
	for _, d := range effects {
		s.metrics.sideEffect(d)
		log.Info("pet got sick", map[string]any{"disease": d})
	}
	if res.Died {
		s.metrics.death()
		log.Warn("pet died", nil)
	}
	span.SetAttributes(attribute.Bool("care.side_effect", len(effects) > 0))

	return res, nil
}

// loadOwned carga la mascota y valida que actorID sea el dueño.
func (s *Service) loadOwned(ctx context.Context, petID, actorID string) (pets.Pet, error) {
	if petID == "" {
		return pets.Pet{}, notFound(petID)
	}
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return pets.Pet{}, notFound(petID)
		}
		return pets.Pet{}, oops.With("pet_id", petID).Wrap(err)
	}
	if strings.TrimSpace(actorID) == "" || p.OwnerUserID != actorID {
		return pets.Pet{}, forbidden(petID, actorID)
	}
	return p, nil
}

// GetStatus devuelve la foto completa de la mascota. No muta nada.
func (s *Service) GetStatus(ctx context.Context, petID, actorID string) (pets.Pet, error) {
	ctx, span := s.tracer.Start(ctx, "care.status", trace.WithAttributes(attribute.String("pet.id", petID)))
	defer span.End()

	p, err := s.loadOwned(ctx, strings.TrimSpace(petID), actorID)
	if err != nil {
		return pets.Pet{}, err
	}
	return p.Clone(), nil
}

func isClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrAlreadyDead) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict)
}
