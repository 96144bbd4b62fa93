package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dlt-go/dlt/internal/contract"
)

// contractCommand applies the schema-contract engine to a sample table
// delta -- one new column with a declared data type -- against an
// existing table the caller controls via --known-column, demonstrating
// the evolve / discard_row / discard_value / freeze decision the resolver
// and extraction commands never exercise directly.
func (a *App) contractCommand() *cobra.Command {
	var (
		tablesMode   string
		columnsMode  string
		dataTypeMode string
		columnName   string
		dataType     string
		knownColumn  bool
	)

	c := &cobra.Command{
		Use:   "contract",
		Short: "Apply the schema-contract engine to a sample column addition",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := contract.Triple{
				Tables:   contract.Mode(tablesMode),
				Columns:  contract.Mode(columnsMode),
				DataType: contract.Mode(dataTypeMode),
			}

			var existingTable *contract.Table
			if knownColumn {
				existingTable = &contract.Table{
					Name:    "sample",
					Columns: map[string]contract.Column{columnName: {DataType: dataType}},
				}
			} else {
				existingTable = &contract.Table{Name: "sample", Columns: map[string]contract.Column{}}
			}

			delta := &contract.TableDelta{
				TableName: "sample",
				Columns:   map[string]contract.Column{columnName: {DataType: dataType}},
			}
			data := map[string]any{columnName: "demo-value"}

			result, resultDelta, err := contract.ApplyWithMetrics(a.metrics, mode, "sample", data, delta, existingTable)

			var frozen *contract.FrozenError
			if errors.As(err, &frozen) {
				a.log.Info("contract decision: freeze",
					"table", "sample", "column", frozen.ColumnName, "slot", frozen.Slot, "change", frozen.Change)
				return err
			}
			if err != nil {
				a.log.Error("contract apply failed", "error", err)
				return err
			}

			switch {
			case result == nil:
				a.log.Info("contract decision: discard_row", "table", "sample")
			case resultDelta != nil && len(resultDelta.Columns) < len(delta.Columns):
				a.log.Info("contract decision: discard_value", "table", "sample", "column", columnName)
			default:
				a.log.Info("contract decision: evolve", "table", "sample", "column", columnName, "data_type", dataType)
			}

			cmd.Printf("result=%v delta=%v\n", result, resultDelta)
			return nil
		},
	}

	c.Flags().StringVar(&tablesMode, "tables-mode", string(contract.Evolve), "tables slot: evolve, discard_row, discard_value, or freeze")
	c.Flags().StringVar(&columnsMode, "columns-mode", string(contract.Evolve), "columns slot: evolve, discard_row, discard_value, or freeze")
	c.Flags().StringVar(&dataTypeMode, "data-type-mode", string(contract.Evolve), "data_type slot: evolve, discard_row, discard_value, or freeze")
	c.Flags().StringVar(&columnName, "column", "status", "name of the column being added")
	c.Flags().StringVar(&dataType, "data-type", "text", "declared data type of the column being added")
	c.Flags().BoolVar(&knownColumn, "known-column", false, "treat the column as already complete on the existing table, so no change kind applies")

	return c
}
