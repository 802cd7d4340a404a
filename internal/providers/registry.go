package providers

import (
	"errors"
	"fmt"

	"github.com/shelfmark/shelfmark/internal/models"
)

// ConfigSource resolves stored provider configuration. *db.DB satisfies it.
type ConfigSource interface {
	GetAPIConfig(provider string) (*models.ApiConfig, error)
}

// kindProviders maps each media kind to the providers that serve it.
var kindProviders = map[models.MediaKind][]string{
	models.KindBook:   {models.ProviderGoogleBooks, models.ProviderOpenLibrary},
	models.KindMovie:  {models.ProviderTMDB},
	models.KindTVShow: {models.ProviderTMDB},
	models.KindGame:   {models.ProviderIGDB, models.ProviderRAWG},
}

// ForKind builds clients for every enabled provider serving the kind.
// Disabled providers are skipped; enabled but misconfigured providers
// contribute to the joined error while the rest still come up.
func ForKind(kind models.MediaKind, source ConfigSource) ([]Client, error) {
	var clients []Client
	var errs []error

	for _, name := range kindProviders[kind] {
		cfg, err := source.GetAPIConfig(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if cfg == nil || !cfg.Enabled {
			continue
		}

		client, err := build(name, kind, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		clients = append(clients, client)
	}

	return clients, errors.Join(errs...)
}

// Build constructs a single named client for the kind it serves.
func Build(name string, source ConfigSource) (Client, error) {
	cfg, err := source.GetAPIConfig(name)
	if err != nil {
		return nil, err
	}
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("%s: %w", name, ErrProviderDisabled)
	}
	kind, err := kindFor(name)
	if err != nil {
		return nil, err
	}
	return build(name, kind, cfg)
}

func kindFor(name string) (models.MediaKind, error) {
	switch name {
	case models.ProviderGoogleBooks, models.ProviderOpenLibrary:
		return models.KindBook, nil
	case models.ProviderTMDB:
		return models.KindMovie, nil // TV instances go through ForKind
	case models.ProviderIGDB, models.ProviderRAWG:
		return models.KindGame, nil
	}
	return "", fmt.Errorf("unknown provider %q", name)
}

func build(name string, kind models.MediaKind, cfg *models.ApiConfig) (Client, error) {
	switch name {
	case models.ProviderGoogleBooks:
		return NewGoogleBooksClient(cfg), nil
	case models.ProviderOpenLibrary:
		return NewOpenLibraryClient(cfg), nil
	case models.ProviderTMDB:
		return NewTMDBClient(cfg, kind)
	case models.ProviderIGDB:
		return NewIGDBClient(cfg)
	case models.ProviderRAWG:
		return NewRAWGClient(cfg)
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}
