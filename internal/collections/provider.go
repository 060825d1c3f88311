package collections

import (
	"fmt"

	"go-retail/internal/config"
	"go-retail/internal/database"
	"go-retail/internal/features/metrics"
)

// NewCollectionPort selects the port adapter from configuration. Mongo is the
// default; postgresql/mysql route through the external SQL adapter.
func NewCollectionPort(cfg *config.Config, db *database.MongodbDB) (metrics.CollectionPort, error) {
	switch cfg.CollectionSource {
	case "", "mongo":
		return NewMongoPort(db), nil
	case "postgresql", "mysql":
		if cfg.SQLDSN == "" {
			return nil, fmt.Errorf("COLLECTION_SOURCE %q requires SQL_DSN", cfg.CollectionSource)
		}
		return NewSQLPort(cfg.CollectionSource, cfg.SQLDSN)
	default:
		return nil, fmt.Errorf("unknown collection source: %s", cfg.CollectionSource)
	}
}
