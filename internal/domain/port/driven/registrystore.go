package driven

import (
	"context"

	"github.com/ericfisherdev/reviewregistry/internal/domain/model"
)

// RegistryStore defines the driven port for publishing a built registry.
type RegistryStore interface {
	Save(ctx context.Context, registry *model.Registry) error
}
