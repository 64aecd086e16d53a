package main

import (
	"context"

	"github.com/samber/oops"

	"pet-care-simulator/internal/adapters/auth/jwtauth"
	"pet-care-simulator/internal/adapters/auth/remote"
	"pet-care-simulator/internal/adapters/capabilities/plansfeatures"
	"pet-care-simulator/internal/adapters/storage/memory"
	"pet-care-simulator/internal/adapters/storage/postgres"
	"pet-care-simulator/internal/adapters/storage/sqlite"
	"pet-care-simulator/internal/config"
	"pet-care-simulator/internal/domain/pets"
	"pet-care-simulator/internal/platform/logger"
	"pet-care-simulator/internal/ports/auth"
	"pet-care-simulator/internal/ports/capabilities"
)

// openStorage devuelve el repositorio elegido y una función para cerrarlo.
func openStorage(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (pets.Repository, func(), error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		if cfg.AutoMigrate {
			if err := migrateUp(cfg.DSN, log); err != nil {
				return nil, nil, err
			}
		}
		pool, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
		}
		log.Info("storage ready", map[string]any{"driver": cfg.Driver})
		return postgres.NewPetsRepo(pool), pool.Close, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("storage ready", map[string]any{"driver": cfg.Driver, "path": cfg.SQLitePath})
		return store, func() { _ = store.Close() }, nil

	default:
		log.Warn("using in-memory storage, data is lost on restart", nil)
		return memory.NewPetRepo(), func() {}, nil
	}
}

func migrateUp(dsn string, log logger.Logger) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("close migrator", map[string]any{"error": err.Error()})
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("migrations applied", map[string]any{"version": v, "dirty": dirty})
	return nil
}

// newVerifier devuelve nil en modo dev (el middleware usa X-Debug-User-ID).
func newVerifier(cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case config.AuthJWT:
		return newJWT(cfg)
	case config.AuthRemote:
		return remote.New(remote.Config{BaseURL: cfg.RemoteURL, APIKey: cfg.RemoteAPIKey})
	default:
		return nil, nil
	}
}

func newJWT(cfg config.AuthConfig) (*jwtauth.Verifier, error) {
	return jwtauth.New(jwtauth.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.JWTTTL,
	})
}

// newCapabilities devuelve nil si no hay plans-features configurado ni allow_all;
// en ese caso la customización paga se rechaza.
func newCapabilities(cfg config.CapabilitiesConfig) (capabilities.CapabilitiesResolver, error) {
	client, err := plansfeatures.NewClient(plansfeatures.Config{BaseURL: cfg.URL, APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	if client == nil && !cfg.AllowAll {
		return nil, nil
	}
	return plansfeatures.NewResolver(client, cfg.AllowAll), nil
}
