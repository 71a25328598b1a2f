// Package report renders the end-of-run summary shown on the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-dormant/internal/usecase"
)

// YearStats describes the creation years of the dormant accounts found.
type YearStats struct {
	Oldest int
	Newest int
	Median float64
}

// ComputeYearStats returns nil when years is empty.
func ComputeYearStats(years []int) (*YearStats, error) {
	if len(years) == 0 {
		return nil, nil
	}
	data := stats.LoadRawData(years)
	oldest, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute oldest year: %w", err)
	}
	newest, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute newest year: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute median year: %w", err)
	}
	return &YearStats{
		Oldest: int(oldest),
		Newest: int(newest),
		Median: median,
	}, nil
}

// RenderSummary prints a two-column table of the scan counters to w.
func RenderSummary(w io.Writer, s *usecase.Summary) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Users scanned", s.Scanned},
		{"Dormant", s.Dormant},
		{"Active or too recent", s.Active},
		{"Not found", s.NotFound},
		{"Incomplete records", s.Malformed},
		{"Failed requests", s.Failed},
	})

	ys, err := ComputeYearStats(s.Years)
	if err != nil {
		return err
	}
	if ys != nil {
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Oldest account", ys.Oldest},
			{"Newest account", ys.Newest},
			{"Median creation year", fmt.Sprintf("%.1f", ys.Median)},
		})
	}

	t.Render()
	return nil
}
