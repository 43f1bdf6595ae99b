package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/spf13/cobra"
)

const ruleWidth = 50

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <SQL>",
		Short: "Run a single SQL statement and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			err := withDatabase(cmd.Context(), func(e env) error {
				return runQuery(cmd.Context(), e.pool, args[0], out)
			})
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				return errReported
			}
			return nil
		},
	}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func runQuery(ctx context.Context, db querier, stmt string, out io.Writer) error {
	rows, err := db.Query(ctx, stmt)
	if err != nil {
		return err
	}
	defer rows.Close()

	var table [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		table = append(table, values)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		writeRowsAffected(out, rows.CommandTag())
		return nil
	}
	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		columns = append(columns, f.Name)
	}
	writeTable(out, columns, table)
	return nil
}

func writeRowsAffected(out io.Writer, tag pgconn.CommandTag) {
	fmt.Fprintf(out, "Query executed successfully. Rows affected: %d\n", tag.RowsAffected())
}

// writeTable prints a header line, a rule and one line per row, all
// " | "-separated.
func writeTable(out io.Writer, columns []string, rows [][]any) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No rows returned")
		return
	}

	fmt.Fprintln(out, strings.Join(columns, " | "))
	fmt.Fprintln(out, strings.Repeat("-", ruleWidth))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, formatCell(v))
		}
		fmt.Fprintln(out, strings.Join(cells, " | "))
	}
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
