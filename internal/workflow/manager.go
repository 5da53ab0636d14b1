package workflow

import (
	"log/slog"

	"clipscribe/internal/config"
	"clipscribe/internal/links"
	"clipscribe/internal/logging"
	"clipscribe/internal/notifications"
)

// Manager coordinates one batch run over the clip store.
type Manager struct {
	cfg        *config.Config
	store      Store
	logger     *slog.Logger
	notifier   notifications.Service
	normalizer *links.Normalizer
	stages     StageSet
}

// NewManager constructs a workflow manager. Stages must be configured before
// Run is called.
func NewManager(cfg *config.Config, store Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, store Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:        cfg,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "workflow"),
		notifier:   notifier,
		normalizer: links.NewNormalizer(cfg.Links.Aliases),
	}
}

// ConfigureStages registers the stage implementations used for each clip.
func (m *Manager) ConfigureStages(set StageSet) {
	m.stages = set
}
