package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/lvn-sweep/pkg/analysis"
	"github.com/ducminhle1904/lvn-sweep/pkg/types"
)

// DefaultConsoleReporter renders analysis output as tables
type DefaultConsoleReporter struct {
	out    io.Writer
	colors bool
}

// NewConsoleReporter creates a console reporter writing to w
func NewConsoleReporter(w io.Writer, colors bool) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{out: w, colors: colors}
}

// PrintReport prints every section of an analysis report
func (r *DefaultConsoleReporter) PrintReport(report *AnalysisReport) {
	if report == nil {
		return
	}
	fmt.Fprintf(r.out, "Loaded %d results from %s\n", report.Results.Len(), report.Source)
	r.PrintSummary(report.Summary)
	r.PrintTop(report)
	r.PrintImpact(report.Impact)
	r.PrintRobust(report.Robust)
}

// PrintSummary prints overall statistics and the best picks
func (r *DefaultConsoleReporter) PrintSummary(s analysis.Summary) {
	r.heading("SUMMARY STATISTICS")
	fmt.Fprintf(r.out, "Total configurations tested: %d\n", s.Total)
	fmt.Fprintf(r.out, "Profitable configurations:   %d (%.1f%%)\n", s.Profitable, s.ProfitablePct)
	fmt.Fprintf(r.out, "Configurations with trades:  %d (%.1f%%)\n", s.WithTrades, s.WithTradesPct)

	r.printBest("Best by P&L", s.BestByPnL)
	r.printBest(fmt.Sprintf("Best by Profit Factor (min %d trades)", analysis.BestMinTrades), s.BestByPF)
	r.printBest(fmt.Sprintf("Best by Sharpe (min %d trades)", analysis.BestMinTrades), s.BestBySharpe)
}

func (r *DefaultConsoleReporter) printBest(title string, row *types.ResultRow) {
	fmt.Fprintf(r.out, "\n%s:\n", title)
	if row == nil {
		fmt.Fprintln(r.out, "  no qualifying results")
		return
	}
	m := row.Metrics
	fmt.Fprintf(r.out, "  P&L: $%.2f, PF: %.2f, Sharpe: %.2f, Trades: %d\n",
		m.TotalPnL, m.ProfitFactor, m.SharpeRatio, m.TotalTrades)
	fmt.Fprintf(r.out, "  Config: delta=%s, lvn=%s, score=%s, tp=%s, trail=%s\n",
		param(row, "min_delta"), param(row, "max_lvn_ratio"), param(row, "min_impulse_score"),
		param(row, "take_profit"), param(row, "trailing_stop"))
}

// PrintTop prints the ranked top table
func (r *DefaultConsoleReporter) PrintTop(report *AnalysisReport) {
	opts := report.Options
	r.heading(fmt.Sprintf("TOP %d CONFIGURATIONS BY %s (min %d trades, %d qualify)",
		opts.Top, strings.ToUpper(opts.SortBy), opts.MinTrades, report.Filtered))
	if len(report.Top) == 0 {
		fmt.Fprintln(r.out, "no qualifying results")
		return
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"#", "Trades", "Win%", "PF", "Sharpe", "P&L", "DD", "R:R", "Config"})
	for i, row := range report.Top {
		m := row.Metrics
		t.AppendRow(table.Row{
			i + 1,
			m.TotalTrades,
			fmt.Sprintf("%.1f", m.WinRate),
			fmt.Sprintf("%.2f", m.ProfitFactor),
			fmt.Sprintf("%.2f", m.SharpeRatio),
			r.money(m.TotalPnL),
			fmt.Sprintf("$%.0f", m.MaxDrawdown),
			fmt.Sprintf("%.2f", m.RRRatio),
			fmt.Sprintf("d=%s lvn=%s sc=%s tp=%s tr=%s",
				param(&row, "min_delta"), param(&row, "max_lvn_ratio"), param(&row, "min_impulse_score"),
				param(&row, "take_profit"), param(&row, "trailing_stop")),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 9, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintImpact prints one table per parameter
func (r *DefaultConsoleReporter) PrintImpact(impact []analysis.ParameterImpact) {
	r.heading("PARAMETER IMPACT ANALYSIS")
	if len(impact) == 0 {
		fmt.Fprintln(r.out, "no qualifying results")
		return
	}
	for _, pi := range impact {
		t := r.newTable()
		t.SetTitle(strings.ToUpper(pi.Param))
		t.AppendHeader(table.Row{"Value", "Count", "Avg PF", "Avg P&L", "Std P&L", "Avg Sharpe", "Avg Trades"})
		if len(pi.Groups) == 0 {
			t.AppendRow(table.Row{"no qualifying results"})
		}
		for _, g := range pi.Groups {
			t.AppendRow(table.Row{
				g.Value.String(),
				g.Count,
				fmt.Sprintf("%.2f", g.AvgPF),
				r.money(g.AvgPnL),
				fmt.Sprintf("%.2f", g.StdPnL),
				fmt.Sprintf("%.2f", g.AvgSharpe),
				fmt.Sprintf("%.1f", g.AvgTrades),
			})
		}
		t.Render()
	}
}

// PrintRobust prints the robust selection, noting when the relaxed tier was used
func (r *DefaultConsoleReporter) PrintRobust(sel analysis.RobustSelection) {
	c := sel.Criteria
	r.heading(fmt.Sprintf("ROBUST CONFIGURATIONS (PF>%.1f, Sharpe>%.1f, %d+ trades)", c.MinPF, c.MinSharpe, c.MinTrades))
	if sel.Relaxed {
		fmt.Fprintf(r.out, "No configurations meet strict criteria. Relaxed to PF>%.1f, P&L>%.0f, %d+ trades.\n",
			c.RelaxedMinPF, c.RelaxedMinPnL, c.RelaxedMinTrades)
	}
	if len(sel.Rows) == 0 {
		fmt.Fprintln(r.out, "no qualifying results")
		return
	}
	fmt.Fprintf(r.out, "Found %d robust configurations, showing %d\n", sel.Matched, len(sel.Rows))

	for i, row := range sel.Rows {
		m := row.Metrics
		fmt.Fprintf(r.out, "\n#%d: Sharpe=%.2f, PF=%.2f, P&L=%s, Trades=%d\n",
			i+1, m.SharpeRatio, m.ProfitFactor, r.money(m.TotalPnL), m.TotalTrades)
		fmt.Fprintf(r.out, "    delta=%s, lvn=%s, score=%s\n",
			param(&row, "min_delta"), param(&row, "max_lvn_ratio"), param(&row, "min_impulse_score"))
		fmt.Fprintf(r.out, "    tp=%s, trail=%s, stop_buf=%s\n",
			param(&row, "take_profit"), param(&row, "trailing_stop"), param(&row, "stop_buffer"))
		fmt.Fprintf(r.out, "    hunting=%s, breakout=%s\n",
			param(&row, "max_hunting_bars"), param(&row, "breakout_threshold"))
	}
}

// PrintQuickSummary prints the end-of-sweep list of profitable configurations
func (r *DefaultConsoleReporter) PrintQuickSummary(rs *types.ResultSet, minTrades, limit int) {
	rows, matched := analysis.TopProfitable(rs, minTrades, limit)
	r.heading("QUICK SUMMARY")
	fmt.Fprintf(r.out, "Profitable configs with %d+ trades: %d\n", minTrades, matched)
	if len(rows) == 0 {
		fmt.Fprintln(r.out, "no qualifying results")
		return
	}
	fmt.Fprintf(r.out, "\nTop %d by Sharpe:\n", len(rows))
	for _, row := range rows {
		m := row.Metrics
		fmt.Fprintf(r.out, "  Sharpe=%.2f PF=%.2f P&L=$%.0f Trades=%d WR=%.1f%% | d=%s sz=%s tr=%s sb=%s\n",
			m.SharpeRatio, m.ProfitFactor, m.TotalPnL, m.TotalTrades, m.WinRate,
			param(&row, "min_delta"), param(&row, "min_impulse_size"),
			param(&row, "trailing_stop"), param(&row, "stop_buffer"))
	}
}

// SweepBanner describes a sweep before it starts
type SweepBanner struct {
	Mode     string
	Total    int
	Resume   int
	Output   string
	Ranges   []string
	Estimate time.Duration
}

// PrintSweepBanner prints the sweep configuration table
func (r *DefaultConsoleReporter) PrintSweepBanner(b SweepBanner) {
	t := r.newTable()
	t.SetTitle("LVN PARAMETER SWEEP")
	t.AppendRows([]table.Row{
		{"Mode", b.Mode},
		{"Total combinations", b.Total},
		{"Resume from", b.Resume},
		{"Output", b.Output},
		{"Estimated time", fmt.Sprintf("%.1f minutes", b.Estimate.Minutes())},
	})
	for _, rg := range b.Ranges {
		t.AppendRow(table.Row{"Range", rg})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 20, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	t.Render()
}

// PrintCompletion prints the closing lines of a sweep
func (r *DefaultConsoleReporter) PrintCompletion(output string, elapsed time.Duration) {
	fmt.Fprintf(r.out, "\nSweep complete! Results saved to %s\n", output)
	fmt.Fprintf(r.out, "Total time: %.1f minutes\n", elapsed.Minutes())
}

func (r *DefaultConsoleReporter) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (r *DefaultConsoleReporter) heading(title string) {
	line := strings.Repeat("=", 80)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n", line, title, line)
}

func (r *DefaultConsoleReporter) money(v float64) string {
	s := fmt.Sprintf("$%.0f", v)
	if !r.colors {
		return s
	}
	if v > 0 {
		return text.FgGreen.Sprint(s)
	}
	if v < 0 {
		return text.FgRed.Sprint(s)
	}
	return s
}

// param renders a parameter for display, "-" when the column is absent
func param(row *types.ResultRow, name string) string {
	if v, ok := row.Params[name]; ok {
		return v.String()
	}
	return "-"
}
