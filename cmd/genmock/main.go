// Command genmock writes a deterministic sample input file and a SQLite
// database holding matching climate data, so the batch can be run locally
// with CLIMATE_BACKEND=sqlite.
//
// Usage:
//
//	go run ./cmd/genmock -n 200 \
//	  -input data/mock/trials.tsv \
//	  -sqlite data/mock/climate.db
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/climax-batch/internal/adapter/sqlstore"
	"github.com/couchcryptid/climax-batch/internal/domain"
)

var seasonStart = time.Date(2011, time.May, 1, 0, 0, 0, 0, time.UTC)

// firstGeneratedID is above both irrigation exception IDs so generated
// cultures never collide with them.
const firstGeneratedID = 60000

type trial struct {
	params domain.TrialParams
	data   domain.ClimateData
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 100, "number of generated trials, in addition to the irrigation exceptions")
	inputOut := flag.String("input", "", "output path for the tab-separated input file")
	sqliteOut := flag.String("sqlite", "", "output path for the SQLite climate database")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *inputOut == "" || *sqliteOut == "" || *n < 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -input, -sqlite")
	}

	trials := generate(*n, *seed)

	if err := writeInput(*inputOut, trials); err != nil {
		return fmt.Errorf("writing input file: %w", err)
	}
	log.Printf("wrote input file: %s (%d trials)", *inputOut, len(trials))

	if err := seedStore(context.Background(), *sqliteOut, trials); err != nil {
		return fmt.Errorf("seeding sqlite fixture: %w", err)
	}
	log.Printf("wrote sqlite fixture: %s", *sqliteOut)

	printStats(trials)
	return nil
}

// generate builds n random trials plus one irrigated trial for each
// irrigation exception. The same seed always yields the same trials.
func generate(n int, seed uint64) []trial {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	trials := make([]trial, 0, n+2)
	for _, id := range []int{47109, 56879} {
		trials = append(trials, randomTrial(rng, id, true))
	}
	for i := range n {
		trials = append(trials, randomTrial(rng, firstGeneratedID+i, i%3 == 0))
	}
	return trials
}

func randomTrial(rng *rand.Rand, cultureID int, irrigated bool) trial {
	params := domain.TrialParams{
		CultureID:     cultureID,
		FloweringDate: seasonStart.AddDate(0, 0, rng.IntN(90)).Format(time.DateOnly),
		SoilVolume:    round(2+rng.Float64()*10, 1),
		FieldCapacity: round(0.1+rng.Float64()*0.3, 2),
	}

	data := domain.ClimateData{
		Irrigated: irrigated,
		Drought:   randomPair(rng, 30),
		Cold:      *randomPair(rng, 10),
		Heat:      *randomPair(rng, 15),
		Light: domain.LightSum{
			Before: round(500+rng.Float64()*1500, 2),
			After:  round(300+rng.Float64()*1200, 2),
		},
	}
	if irrigated {
		data.ControlDrought = randomPair(rng, 10)
		data.StressDrought = randomPair(rng, 40)
		// Irrigated trials outside the exceptions carry no plain drought.
		if !domain.IsIrrigationException(cultureID) {
			data.Drought = nil
		}
	}
	return trial{params: params, data: data}
}

func randomPair(rng *rand.Rand, maxDays int) *domain.StressPair {
	return &domain.StressPair{Before: rng.IntN(maxDays + 1), After: rng.IntN(maxDays + 1)}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func writeInput(path string, trials []trial) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, t := range trials {
		p := t.params
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.CultureID, p.FloweringDate,
			strconv.FormatFloat(p.SoilVolume, 'f', -1, 64),
			strconv.FormatFloat(p.FieldCapacity, 'f', -1, 64))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func seedStore(ctx context.Context, path string, trials []trial) error {
	store, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	for _, t := range trials {
		if err := store.Put(ctx, t.params, t.data); err != nil {
			return err
		}
	}
	return nil
}

func printStats(trials []trial) {
	irrigated := 0
	for _, t := range trials {
		if t.data.Irrigated {
			irrigated++
		}
	}
	fmt.Printf("\n=== Trial Stats ===\n")
	fmt.Printf("Total:     %d\n", len(trials))
	fmt.Printf("Irrigated: %d\n", irrigated)
	fmt.Printf("Dryland:   %d\n", len(trials)-irrigated)
}
