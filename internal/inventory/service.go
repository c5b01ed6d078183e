package inventory

import (
	"inventory-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service performs product, category and supplier operations on an injected database handle.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *prometheus.Metrics
}

// NewService creates a Service. log and metrics may be nil.
func NewService(db *gorm.DB, log *zap.Logger, metrics *prometheus.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log, metrics: metrics}
}
