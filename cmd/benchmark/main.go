package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"navigator/config"
	"navigator/internal/adapter/embedding"
	"navigator/internal/adapter/store"
	"navigator/internal/usecase"
)

func main() {
	corpusDir := flag.String("dir", ".", "Path to ingested corpus directory")
	query := flag.String("q", "", "Query to test")
	topK := flag.Int("k", 5, "Number of results")
	runs := flag.Int("runs", 200, "Search repetitions for latency measurement")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run ./cmd/benchmark -dir ./papers -q \"query\"")
		fmt.Println("\nReports:")
		fmt.Println("  1. Index metadata (model, dimension, fragments)")
		fmt.Println("  2. Nearest fragments with their L2 distance")
		fmt.Println("  3. Exact search latency over repeated runs")
		os.Exit(1)
	}
	if err := checkRuns(*runs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.LoadEnv(*corpusDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromDir(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder error: %v\n", err)
		os.Exit(1)
	}

	rt, err := usecase.LoadRuntime(store.NewBoltStore(), config.IndexDBPath(*corpusDir), embedder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading index: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Fragments indexed: %d\n", rt.Index.Len())
	fmt.Printf("Model: %s (%s)\n", rt.Manifest.Model, cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", rt.Index.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	start := time.Now()
	queryVec, err := embedder.Embed(context.Background(), []string{*query})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Query embedded in %s\n\n", time.Since(start).Round(time.Microsecond))

	hits, err := rt.Index.Search(queryVec[0], *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Top %d matches:\n\n", len(hits))
	for i, h := range hits {
		frag, err := rt.Fragments.Resolve(h.Position)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Resolve error: %v\n", err)
			os.Exit(1)
		}

		preview := strings.ReplaceAll(frag.Text, "\n", " ")
		if r := []rune(preview); len(r) > 150 {
			preview = string(r[:150]) + "..."
		}

		fmt.Printf("%d. [d=%.4f] %s\n", i+1, h.Distance, frag.Source)
		fmt.Printf("   %s\n\n", preview)
	}

	latencies := make([]time.Duration, 0, *runs)
	for i := 0; i < *runs; i++ {
		t := time.Now()
		if _, err := rt.Index.Search(queryVec[0], *topK); err != nil {
			fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
			os.Exit(1)
		}
		latencies = append(latencies, time.Since(t))
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("SEARCH LATENCY (%d runs, k=%d):\n", len(latencies), *topK)
	if len(latencies) > 0 {
		fmt.Printf("  p50: %s\n", percentile(latencies, 0.50))
		fmt.Printf("  p95: %s\n", percentile(latencies, 0.95))
		fmt.Printf("  max: %s\n", latencies[len(latencies)-1])
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	i := int(float64(len(sorted)-1) * p)
	return sorted[i].Round(time.Microsecond)
}

func checkRuns(n int) error {
	if n < 0 {
		return fmt.Errorf("-runs must not be negative, got %d", n)
	}
	return nil
}
