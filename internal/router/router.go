package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-care-simulator/docs"
	mem "pet-care-simulator/internal/adapters/storage/memory"
	"pet-care-simulator/internal/domain/care"
	"pet-care-simulator/internal/domain/pets"
	"pet-care-simulator/internal/middleware"
	"pet-care-simulator/internal/platform/logger"
	"pet-care-simulator/internal/ports/auth"
	"pet-care-simulator/internal/ports/capabilities"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Si es nil se usa el store en memoria.
	Pets pets.Repository

	Logger       logger.Logger
	Registry     *prometheus.Registry
	Capabilities capabilities.CapabilitiesResolver

	// Para tests: fuente aleatoria y reloj del motor.
	Random care.Random
	Now    func() time.Time

	HistoryLimit int
	MaxRetries   int
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}

	petRepo := opts.Pets
	if petRepo == nil {
		petRepo = mem.NewPetRepo()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	careOpts := []care.Option{
		care.WithLogger(log.With(map[string]any{"component": "care"})),
		care.WithMetrics(care.NewMetrics(reg)),
		care.WithCapabilities(opts.Capabilities),
		care.WithRandom(opts.Random),
		care.WithClock(opts.Now),
		care.WithHistoryLimit(opts.HistoryLimit),
	}
	if opts.MaxRetries > 0 {
		careOpts = append(careOpts, care.WithMaxRetries(uint64(opts.MaxRetries)))
	}

	petsSvc := pets.NewService(petRepo)
	careSvc := care.NewService(petRepo, careOpts...)

	pets.RegisterRoutes(r, petsSvc)
	care.RegisterRoutes(r, careSvc)

	return r
}
