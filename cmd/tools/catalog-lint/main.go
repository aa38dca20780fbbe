// cmd/tools/catalog-lint/main.go
//
// catalog-lint validates an intent catalog and its lexicons without starting
// the service. It runs the exact load path the service uses, so a clean lint
// guarantees a clean startup.
//
// Usage:
//
//	catalog-lint -catalog configs/intent_catalog.json \
//	    -sectors configs/lexicons/sectors.txt \
//	    -metrics configs/lexicons/metrics.txt
package main

import (
	"flag"
	"fmt"
	"os"

	"insight-router/internal/classifier"
)

func main() {
	catalogPath := flag.String("catalog", "configs/intent_catalog.json", "path to the intent catalog")
	sectorPath := flag.String("sectors", "configs/lexicons/sectors.txt", "path to the sector lexicon")
	metricPath := flag.String("metrics", "configs/lexicons/metrics.txt", "path to the metric lexicon")
	flag.Parse()

	snap, err := classifier.LoadSnapshot(*sectorPath, *metricPath, *catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog-lint: %v\n", err)
		os.Exit(1)
	}

	prefetch := 0
	for i := range snap.Catalog.Intents {
		prefetch += len(snap.Catalog.Intents[i].Prefetch)
	}

	fmt.Printf("OK: %d intents, %d sector terms, %d metric terms, %d time patterns, %d prefetch templates\n",
		len(snap.Catalog.Intents),
		len(snap.Lexicons.Sectors),
		len(snap.Lexicons.Metrics),
		len(snap.Catalog.TimePatterns),
		prefetch,
	)
}
