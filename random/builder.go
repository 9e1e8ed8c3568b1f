package random

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// ServiceBuilder assembles a Service from collections.
type ServiceBuilder struct {
	collections []Collection
	logger      *zap.Logger
}

// NewServiceBuilder returns an empty builder.
func NewServiceBuilder() *ServiceBuilder {
	return &ServiceBuilder{logger: zap.NewNop()}
}

// WithLogger sets the logger used to report registrations at debug level.
func (b *ServiceBuilder) WithLogger(logger *zap.Logger) *ServiceBuilder {
	if logger != nil {
		b.logger = logger
	}

	return b
}

// With registers a collection. Collections registered earlier take precedence for overlapping value types. A nil
// collection is ignored.
func (b *ServiceBuilder) With(collection Collection) *ServiceBuilder {
	if collection == nil {
		return b
	}

	b.collections = append(b.collections, collection)
	b.logger.Debug("registered randomizer collection",
		zap.Int("position", len(b.collections)-1),
		zap.String("collection", fmt.Sprintf("%T", collection)))

	return b
}

// Build returns a Service over the registered collections. Later calls to With do not affect it.
func (b *ServiceBuilder) Build() *Service {
	b.logger.Debug("built random service", zap.Int("collections", len(b.collections)))

	return &Service{collections: slices.Clone(b.collections)}
}
