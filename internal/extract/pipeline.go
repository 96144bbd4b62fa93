package extract

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dlt-go/dlt/internal/contract"
	"github.com/dlt-go/dlt/internal/extractregistry"
	"github.com/dlt-go/dlt/internal/metrics"
)

var tableNameSanitizer = regexp.MustCompile(`[^a-z0-9_]+`)

// NormalizeTableName lower-cases a table name and collapses any run of
// characters outside [a-z0-9_] into a single underscore.
func NormalizeTableName(name string) string {
	return tableNameSanitizer.ReplaceAllString(strings.ToLower(name), "_")
}

// Extract is the extraction pipeline's public contract (spec.md §4.D):
// request a fresh extract_id, pull every resource's items concurrently,
// route each item to its target table's staged writer, and commit on
// completion. It returns the map of dynamic tables discovered along the
// way.
func Extract(ctx context.Context, schemaName string, source Source, storage *Storage) (map[string]*contract.TableDelta, error) {
	return ExtractWithMetrics(ctx, nil, schemaName, source, storage)
}

// ExtractWithMetrics behaves exactly like Extract, additionally timing the
// commit step and counting committed files when m is non-nil.
func ExtractWithMetrics(ctx context.Context, m *metrics.Metrics, schemaName string, source Source, storage *Storage) (map[string]*contract.TableDelta, error) {
	if _, err := storage.NewExtractID(); err != nil {
		return nil, err
	}
	return runExtract(ctx, m, schemaName, source, storage)
}

// ExtractWithRegistry behaves like ExtractWithMetrics, additionally
// recording the extract transaction's lifecycle in reg: a "started" row
// before any resource is pulled, "committed" on success, or "failed" if
// either the pull or the commit step returns an error -- the ledger
// spec.md §7 describes for locating an abandoned staging directory after
// a crash. m may be nil.
func ExtractWithRegistry(ctx context.Context, m *metrics.Metrics, reg *extractregistry.Registry, schemaName string, source Source, storage *Storage) (map[string]*contract.TableDelta, error) {
	extractID, err := storage.NewExtractID()
	if err != nil {
		return nil, err
	}
	if err := reg.Start(extractID, schemaName, time.Now()); err != nil {
		return nil, err
	}

	dynamicTables, err := runExtract(ctx, m, schemaName, source, storage)
	if err != nil {
		if failErr := reg.Fail(extractID); failErr != nil {
			return nil, multierr.Append(err, failErr)
		}
		return nil, err
	}
	if err := reg.Commit(extractID, time.Now()); err != nil {
		return nil, err
	}
	return dynamicTables, nil
}

func runExtract(ctx context.Context, m *metrics.Metrics, schemaName string, source Source, storage *Storage) (map[string]*contract.TableDelta, error) {
	var mu sync.Mutex
	dynamicTables := map[string]*contract.TableDelta{}

	group, gctx := errgroup.WithContext(ctx)
	for _, resource := range source.Resources() {
		resource := resource
		group.Go(func() error {
			return pullResource(gctx, schemaName, resource, storage, &mu, dynamicTables)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	commitStart := time.Now()
	committed, err := storage.Commit()
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.ExtractCommitDuration.Observe(time.Since(commitStart).Seconds())
		m.ExtractFilesCommitted.Add(float64(len(committed)))
	}
	return dynamicTables, nil
}

func pullResource(
	ctx context.Context,
	schemaName string,
	resource Resource,
	storage *Storage,
	mu *sync.Mutex,
	dynamicTables map[string]*contract.TableDelta,
) error {
	items, errs := resource.Items(ctx)
	dynamic, isDynamic := resource.(DynamicTableResource)
	hinted, isHinted := resource.(ColumnHinted)

	for item := range items {
		tableName := resource.Name()
		if isDynamic {
			tableName = dynamic.TableName(item)
		}
		normalized := NormalizeTableName(tableName)

		data, ok := item.(map[string]any)
		if !ok {
			data = map[string]any{"value": item}
		}

		if err := storage.WriteItem(schemaName, normalized, resource.Name(), data); err != nil {
			return err
		}

		// Only resources with a table-name hint function (or declared column
		// hints) populate the dynamic-tables map; a purely static resource
		// contributes nothing to it (spec.md §8 scenario 5).
		switch {
		case isHinted:
			mu.Lock()
			err := mergeColumnHints(dynamicTables, normalized, hinted.ColumnHints())
			mu.Unlock()
			if err != nil {
				return err
			}
		case isDynamic:
			mu.Lock()
			if _, seen := dynamicTables[normalized]; !seen {
				dynamicTables[normalized] = &contract.TableDelta{TableName: normalized, Columns: map[string]contract.Column{}}
			}
			mu.Unlock()
		}
	}

	if err, ok := <-errs; ok {
		return err
	}
	return nil
}

// mergeColumnHints deep-merges newCols into the dynamic-tables map entry
// for table, leaving any column already recorded there untouched (spec.md
// §4.D step 3, "merged deeply into the dynamic-tables map").
func mergeColumnHints(dynamicTables map[string]*contract.TableDelta, table string, newCols map[string]contract.Column) error {
	existing, ok := dynamicTables[table]
	if !ok {
		cols := make(map[string]contract.Column, len(newCols))
		for k, v := range newCols {
			cols[k] = v
		}
		dynamicTables[table] = &contract.TableDelta{TableName: table, Columns: cols}
		return nil
	}
	return mergo.Merge(&existing.Columns, newCols)
}
