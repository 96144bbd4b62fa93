package extract

import (
	"context"

	"github.com/dlt-go/dlt/internal/contract"
)

// Resource is one of a Source's pull-iterable item producers (spec.md §4.D
// step 2). Items pulls items asynchronously; the returned error channel
// carries at most one error and is closed alongside the item channel.
type Resource interface {
	Name() string
	Items(ctx context.Context) (<-chan any, <-chan error)
}

// DynamicTableResource is implemented by a Resource whose target table
// name varies per item (spec.md §4.D step 3, "table-name hint function").
type DynamicTableResource interface {
	Resource
	TableName(item any) string
}

// ColumnHinted is implemented by a Resource that declares column hints
// used to seed the dynamic-tables map (spec.md §4.D step 3).
type ColumnHinted interface {
	Resource
	ColumnHints() map[string]contract.Column
}

// Source exposes the resources one Extract call iterates.
type Source interface {
	Resources() []Resource
}

// StaticSource is the common case: a fixed slice of resources known ahead
// of time.
type StaticSource struct {
	resources []Resource
}

// NewStaticSource wraps resources as a Source.
func NewStaticSource(resources ...Resource) StaticSource {
	return StaticSource{resources: resources}
}

func (s StaticSource) Resources() []Resource { return s.resources }
