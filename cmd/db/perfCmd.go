package db

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/mongoBridge/client"
	"github.com/ValentinKolb/mongoBridge/cmd/util"
	"github.com/ValentinKolb/mongoBridge/lib/dynval"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the bridge",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfCollection = "perf.docs"
	perfNumThreads = 10
	perfDocSpread  = 100
	perfSkip       = make([]string, 0)

	perfTimers = gometrics.NewRegistry()
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. insert,query)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "docs"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different documents to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "prometheus"
	perfTestCmd.Flags().Bool(key, false, util.WrapString("Dump the bridge's Prometheus counters after the run"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfDocSpread = viper.GetInt("docs")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for the bridge")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	insertResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("insert") {
			return
		}

		timer := gometrics.GetOrRegisterTimer("insert", perfTimers)

		b.Cleanup(func() {
			if err := perfRemoveAll(); err != nil {
				log.Printf("(insert) - error cleaning up: %v\n", err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				doc := perfDoc(counter)
				timer.Time(func() {
					if err := perfInsert(doc); err != nil {
						log.Printf("(insert) - error inserting: %v\n", err)
					}
				})
				counter++
			}
		})
	})

	results["insert"] = insertResult
	printResult("insert", insertResult)

	queryResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("query") {
			return
		}

		timer := gometrics.GetOrRegisterTimer("query", perfTimers)

		// seed documents
		for i := 0; i < perfDocSpread; i++ {
			if err := perfInsert(perfDoc(i)); err != nil {
				log.Printf("(query) - error seeding: %v\n", err)
			}
		}

		b.Cleanup(func() {
			if err := perfRemoveAll(); err != nil {
				log.Printf("(query) - error cleaning up: %v\n", err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				filter := perfFilter(counter)
				timer.Time(func() {
					if _, err := perfQuery(filter); err != nil {
						log.Printf("(query) - error querying: %v\n", err)
					}
				})
				counter++
			}
		})
	})

	results["query"] = queryResult
	printResult("query", queryResult)

	updateResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("update") {
			return
		}

		timer := gometrics.GetOrRegisterTimer("update", perfTimers)

		// seed documents
		for i := 0; i < perfDocSpread; i++ {
			if err := perfInsert(perfDoc(i)); err != nil {
				log.Printf("(update) - error seeding: %v\n", err)
			}
		}

		b.Cleanup(func() {
			if err := perfRemoveAll(); err != nil {
				log.Printf("(update) - error cleaning up: %v\n", err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				filter := perfFilter(counter)
				doc := perfDoc(counter % perfDocSpread)
				timer.Time(func() {
					if err := perfUpdate(filter, doc); err != nil {
						log.Printf("(update) - error updating: %v\n", err)
					}
				})
				counter++
			}
		})
	})

	results["update"] = updateResult
	printResult("update", updateResult)

	mixedResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		timer := gometrics.GetOrRegisterTimer("mixed", perfTimers)

		b.Cleanup(func() {
			if err := perfRemoveAll(); err != nil {
				log.Printf("(mixed) - error cleaning up: %v\n", err)
			}
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				idx := counter % perfDocSpread
				timer.Time(func() {
					var err error
					switch counter % 4 {
					case 0: // insert
						err = perfInsert(perfDoc(idx))
					case 1: // query
						_, err = perfQuery(perfFilter(idx))
					case 2: // update
						err = perfUpdate(perfFilter(idx), perfDoc(idx))
					case 3: // remove
						err = perfRemoveOne(perfFilter(idx))
					}
					if err != nil {
						log.Printf("(mixed) - error performing operation (%d): %v\n", counter%4, err)
					}
				})
				counter++
			}
		})
	})

	results["mixed"] = mixedResult
	printResult("mixed", mixedResult)

	// Print the measured latency distributions
	printTimers()

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	// Dump the bridge's Prometheus counters if requested
	if viper.GetBool("prometheus") {
		fmt.Println()
		vmetrics.WritePrometheus(os.Stdout, false)
	}

	return nil
}

// --------------------------------------------------------------------------
// Operations under test
// --------------------------------------------------------------------------

func perfDoc(i int) dynval.Value {
	return dynval.Mapping(
		dynval.M("n", dynval.Int(int32(i%perfDocSpread))),
		dynval.M("payload", dynval.String("test")),
	)
}

func perfFilter(i int) dynval.Value {
	return dynval.Mapping(dynval.M("n", dynval.Int(int32(i%perfDocSpread))))
}

func perfInsert(doc dynval.Value) error {
	return awaitAck(func() *client.DeferredAck {
		return conn.Insert(perfCollection, doc)
	})
}

func perfQuery(filter dynval.Value) (dynval.Value, error) {
	return awaitValue(func() *client.DeferredValue {
		return conn.Query(perfCollection, filter)
	})
}

func perfUpdate(filter, doc dynval.Value) error {
	return awaitAck(func() *client.DeferredAck {
		return conn.Update(perfCollection, filter, doc, true, false)
	})
}

func perfRemoveOne(filter dynval.Value) error {
	return awaitAck(func() *client.DeferredAck {
		return conn.Remove(perfCollection, filter, true)
	})
}

func perfRemoveAll() error {
	return awaitAck(func() *client.DeferredAck {
		return conn.Remove(perfCollection, dynval.Mapping(), false)
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// printTimers prints the latency distribution of every recorded timer
func printTimers() {
	fmt.Println()
	fmt.Println("Latency distribution:")
	perfTimers.Each(func(name string, metric interface{}) {
		timer, ok := metric.(gometrics.Timer)
		if !ok || timer.Count() == 0 {
			return
		}
		ps := timer.Percentiles([]float64{0.5, 0.95, 0.99})
		fmt.Printf("%-20sp50=%s\tp95=%s\tp99=%s\n",
			name,
			time.Duration(int64(ps[0])),
			time.Duration(int64(ps[1])),
			time.Duration(int64(ps[2])))
	})
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetClientConfig()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Address", "TimeoutSec", "Serializer",
		"Threads", "Docs Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			config.Address,
			strconv.Itoa(util.GetTimeoutSeconds()),
			viper.GetString("serializer"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfDocSpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
