// Package demo provides a small, self-contained extract.Source that the
// cmd/dlt extract subcommand runs: one dynamic-table resource emitting
// decimal-precision order amounts, enough to exercise the extraction
// pipeline end-to-end from the CLI.
package demo

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dlt-go/dlt/internal/contract"
	"github.com/dlt-go/dlt/internal/extract"
)

// ResourceSpec describes one demo resource: which region's orders it
// emits and how many rows to synthesize. CLI flags populate this struct
// before it is validated.
type ResourceSpec struct {
	Name    string `validate:"required,alphanum"`
	Region  string `validate:"required,oneof=us eu apac"`
	Country string `validate:"required,len=2,uppercase"`
	Count   int    `validate:"required,min=1,max=10000"`
}

// Validate runs struct-tag validation over spec, returning a readable
// error naming every failed field and tag.
func (s ResourceSpec) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msg := "invalid resource spec:"
			for _, fe := range verrs {
				msg += fmt.Sprintf(" %s failed %q;", fe.Field(), fe.Tag())
			}
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return nil
}

// OrdersResource synthesizes decimal-precision order rows for one spec,
// routed to a per-country table (orders_<country>) via the dynamic
// table-name hint, exercising the extraction pipeline's dynamic-tables
// path the same way spec.md §8 scenario 6 describes.
type OrdersResource struct {
	spec ResourceSpec
}

// NewOrdersResource builds an OrdersResource over a validated spec.
func NewOrdersResource(spec ResourceSpec) *OrdersResource {
	return &OrdersResource{spec: spec}
}

func (r *OrdersResource) Name() string { return r.spec.Name }

// TableName routes every item into a per-country table, the dynamic-table
// hint the extraction pipeline keys its dynamicTables map on.
func (r *OrdersResource) TableName(item any) string {
	row, ok := item.(map[string]any)
	if !ok {
		return r.spec.Name
	}
	country, _ := row["country"].(string)
	if country == "" {
		return r.spec.Name
	}
	return fmt.Sprintf("%s_%s", r.spec.Name, country)
}

// ColumnHints declares the amount column's exact-precision decimal type,
// merged into the dynamic-tables map the same way a resource with inferred
// columns would (spec.md §4.D step 3).
func (r *OrdersResource) ColumnHints() map[string]contract.Column {
	return map[string]contract.Column{
		"amount": {DataType: "decimal", Variant: false},
	}
}

// Items synthesizes spec.Count rows, each carrying a shopspring/decimal
// amount so the puae-jsonl encoder's decimal tag gets exercised end to
// end from the CLI.
func (r *OrdersResource) Items(ctx context.Context) (<-chan any, <-chan error) {
	out := make(chan any)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		base := decimal.NewFromFloat(19.99)
		for i := 0; i < r.spec.Count; i++ {
			amount := base.Add(decimal.New(int64(i), 0))
			row := map[string]any{
				"order_id": i + 1,
				"region":   r.spec.Region,
				"country":  r.spec.Country,
				"amount":   amount,
			}
			select {
			case out <- row:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()
	return out, errs
}

var (
	_ extract.DynamicTableResource = (*OrdersResource)(nil)
	_ extract.ColumnHinted         = (*OrdersResource)(nil)
)

// Source builds an extract.Source wrapping a single validated OrdersResource.
func Source(spec ResourceSpec) (extract.Source, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return extract.NewStaticSource(NewOrdersResource(spec)), nil
}
