package reporting

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// WriteResultsSQLite exports rs into a SQLite database for ad-hoc queries.
// Existing tables are replaced. Tables: results (one row per trial, typed
// columns), and with a report, parameter_impact and robust (row_index
// referencing results).
func WriteResultsSQLite(rs *types.ResultSet, report *AnalysisReport, path string) error {
	if rs == nil {
		return fmt.Errorf("no results to export")
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeResultsTable(tx, rs); err != nil {
		return err
	}
	if report != nil {
		if err := writeImpactTable(tx, report); err != nil {
			return err
		}
		if err := writeRobustTable(tx, report); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func writeResultsTable(tx *sql.Tx, rs *types.ResultSet) error {
	header := types.Header(rs.ParamNames)

	cols := make([]string, 0, len(header)+1)
	cols = append(cols, `"row_index" INTEGER PRIMARY KEY`)
	for _, name := range rs.ParamNames {
		cols = append(cols, fmt.Sprintf("%s %s", quoteIdent(name), paramColumnType(rs, name)))
	}
	for _, name := range types.MetricNames {
		typ := "REAL"
		if types.IntMetrics[name] {
			typ = "INTEGER"
		}
		cols = append(cols, fmt.Sprintf("%s %s", quoteIdent(name), typ))
	}

	if _, err := tx.Exec(`DROP TABLE IF EXISTS results`); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("CREATE TABLE results (%s)", strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}

	names := make([]string, 0, len(header)+1)
	names = append(names, quoteIdent("row_index"))
	for _, h := range header {
		names = append(names, quoteIdent(h))
	}
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO results (%s) VALUES (%s)",
		strings.Join(names, ", "), placeholders(len(names))))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rs.Rows {
		args := make([]interface{}, 0, len(names))
		args = append(args, row.Index)
		for _, name := range rs.ParamNames {
			args = append(args, cellValue(row.Params[name]))
		}
		for _, name := range types.MetricNames {
			args = append(args, cellValue(row.Metrics.Value(name)))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", row.Index, err)
		}
	}
	return nil
}

func writeImpactTable(tx *sql.Tx, report *AnalysisReport) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS parameter_impact`); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE TABLE parameter_impact (
		parameter TEXT NOT NULL,
		value TEXT NOT NULL,
		count INTEGER,
		avg_pf REAL,
		avg_pnl REAL,
		std_pnl REAL,
		avg_sharpe REAL,
		avg_trades REAL
	)`); err != nil {
		return fmt.Errorf("failed to create parameter_impact table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO parameter_impact VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, pi := range report.Impact {
		for _, g := range pi.Groups {
			if _, err := stmt.Exec(pi.Param, g.Value.String(), g.Count, g.AvgPF, g.AvgPnL, g.StdPnL, g.AvgSharpe, g.AvgTrades); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRobustTable(tx *sql.Tx, report *AnalysisReport) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS robust`); err != nil {
		return err
	}
	if _, err := tx.Exec(`CREATE TABLE robust (rank INTEGER PRIMARY KEY, row_index INTEGER NOT NULL, relaxed INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create robust table: %w", err)
	}
	for i, row := range report.Robust.Rows {
		if _, err := tx.Exec(`INSERT INTO robust VALUES (?, ?, ?)`, i+1, row.Index, report.Robust.Relaxed); err != nil {
			return err
		}
	}
	return nil
}

// paramColumnType picks a column affinity from the kinds seen in the data
func paramColumnType(rs *types.ResultSet, name string) string {
	kind := types.KindInt
	for _, row := range rs.Rows {
		v, ok := row.Params[name]
		if !ok {
			continue
		}
		if v.Kind == types.KindText {
			return "TEXT"
		}
		if v.Kind == types.KindFloat {
			kind = types.KindFloat
		}
	}
	if kind == types.KindFloat {
		return "REAL"
	}
	return "INTEGER"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
