package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/medatlas/kolserve/internal/datagen"
)

const defaultCount = 50

func main() {
	var (
		count  = flag.Int("count", defaultCount, "Number of records to generate")
		output = flag.String("output", "data/kols.json", "Output file for the generated dataset")
	)
	flag.Parse()

	if *count <= 0 {
		os.Stderr.WriteString("count must be positive\n")
		os.Exit(1)
	}

	records := datagen.Generate(*count)
	if err := datagen.WriteFile(*output, records); err != nil {
		os.Stderr.WriteString("failed to write dataset: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("wrote %d records to %s\n", len(records), *output)
}
