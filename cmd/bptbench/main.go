// Command bptbench benchmarks the in-memory B+ tree against Pebble across a
// sweep of node capacities and workload mixes, writing a CSV report and a
// latency chart.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bplustree-go/bplustree"
	"github.com/bplustree-go/bplustree/bench"
)

func main() {
	bplustree.ConfigureLogging()

	scale := flag.Int("n", 1_000_000, "number of keys per suite")
	out := flag.String("out", "results.csv", "CSV output path")
	chart := flag.String("chart", "latency.png", "latency chart output path")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"})

	var all []bench.Result

	capacities := []int{8, 32, 128}
	for _, c := range capacities {
		tree, err := bench.NewBPlusTree(c)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		all = append(all, runSuite(w, "BPlusTree", c, tree, *scale)...)
		tree.Close()
	}

	dir, err := os.MkdirTemp("", "bptbench-pebble")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)
	lsm, err := bench.OpenLSM(filepath.Join(dir, "db"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	all = append(all, runSuite(w, "Pebble", 0, lsm, *scale)...)
	lsm.Close()

	w.Flush()
	if err := bench.PlotLatencies("Ordered index latency", all, *chart); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Benchmark complete. Data ready for analysis.")
}

func runSuite(w *csv.Writer, name string, conf int, idx bench.Index, n int) []bench.Result {
	fmt.Printf("Testing %s (Config: %d)\n", name, conf)
	confStr := fmt.Sprintf("%d", conf)
	var results []bench.Result

	// 1. Pure insert (initial load).
	start := time.Now()
	for k := 0; k < n; k++ {
		idx.Insert(int64(k), []byte("v"))
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(n)

	// Sample memory right after load, before workloads.
	stats := bench.GetDetailedMem()
	res := bench.Result{
		Name:      name,
		Config:    confStr,
		Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	}
	bench.Record(w, res)
	results = append(results, res)

	// 2. OLTP (read heavy).
	start = time.Now()
	bench.ExecuteWorkload(idx, bench.OLTP, n/2)
	res = bench.Result{Name: name, Config: confStr, Operation: "Workload_OLTP",
		LatencyNs: time.Since(start).Nanoseconds() / int64(n/2), MemMB: bench.GetDetailedMem().AllocMB}
	bench.Record(w, res)
	results = append(results, res)

	// 3. OLAP (write heavy).
	start = time.Now()
	bench.ExecuteWorkload(idx, bench.OLAP, n/2)
	res = bench.Result{Name: name, Config: confStr, Operation: "Workload_OLAP",
		LatencyNs: time.Since(start).Nanoseconds() / int64(n/2), MemMB: bench.GetDetailedMem().AllocMB}
	bench.Record(w, res)
	results = append(results, res)

	// 4. Range scan.
	start = time.Now()
	bench.ExecuteWorkload(idx, bench.Reporting, 100)
	res = bench.Result{Name: name, Config: confStr, Operation: "Workload_Range",
		LatencyNs: time.Since(start).Nanoseconds() / 100, MemMB: bench.GetDetailedMem().AllocMB}
	bench.Record(w, res)
	results = append(results, res)

	return results
}
