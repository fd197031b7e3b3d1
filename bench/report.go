package bench

import (
	"encoding/csv"
	"fmt"
	"runtime"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Result is one benchmark measurement; Objects is included for GC pressure
// analysis.
type Result struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

type MemoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// GetDetailedMem samples live-heap statistics. It forces a GC first so the
// numbers reflect actual live data, not garbage.
func GetDetailedMem() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

// Record writes one result row to the CSV writer.
func Record(w *csv.Writer, res Result) {
	w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}

// PlotLatencies renders a bar chart of per-operation latencies, one bar per
// result, and saves it to path (extension selects the format, e.g. .png).
func PlotLatencies(title string, results []Result, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "ns/op"

	values := make(plotter.Values, len(results))
	labels := make([]string, len(results))
	for i, r := range results {
		values[i] = float64(r.LatencyNs)
		labels[i] = fmt.Sprintf("%s/%s/%s", r.Name, r.Config, r.Operation)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("bench: bar chart: %w", err)
	}
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.5

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("bench: save plot: %w", err)
	}
	return nil
}
