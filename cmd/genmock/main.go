// Command genmock writes a synthetic daily observation file with known
// faults injected (no-data sentinels, gross errors, inverted max/min pairs,
// and implausible daily ranges) and prints the ledger the quality checks
// produce for it. It runs the real domain checks so the printed ledger always
// matches pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/DataQualityChecking.txt -days 730 -seed 7
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-qc/internal/domain"
)

// faultRates are per-row probabilities of each injected fault.
type faultRates struct {
	noData     float64
	grossError float64
	swapped    float64
	rangeFail  float64
}

var defaultRates = faultRates{noData: 0.02, grossError: 0.01, swapped: 0.01, rangeFail: 0.005}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the synthetic observation file")
	days := flag.Int("days", 365, "number of daily rows to generate")
	seed := flag.Uint64("seed", 1, "random seed; the same seed always yields the same file")
	start := flag.String("start", "1915-01-01", "first date (YYYY-MM-DD)")
	flag.Parse()

	if *out == "" || *days <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -days > 0")
	}
	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	raw := generate(rng, startDate, *days, defaultRates)

	if err := writeRaw(*out, raw); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d rows: %s", len(raw), *out)

	// Run the actual checks on a copy to report the expected ledger.
	table, ledger := raw.Clone(), domain.NewLedger()
	for _, c := range domain.Checks() {
		table, ledger = c.Apply(table, ledger)
	}

	fmt.Println("\n=== Expected ledger ===")
	return textfile.WriteLedger(os.Stdout, ledger)
}

// generate builds a seasonal series and injects faults. Sentinels are written
// as the raw NoDataValue so the file looks like station output.
func generate(rng *rand.Rand, start time.Time, days int, rates faultRates) domain.Table {
	table := make(domain.Table, 0, days)
	for i := range days {
		date := start.AddDate(0, 0, i)
		season := math.Sin(2 * math.Pi * float64(date.YearDay()-105) / 365.25)

		mean := 10 + 14*season
		spread := 6 + 4*rng.Float64()
		maxT := round2(mean + spread/2 + rng.NormFloat64())
		minT := round2(mean - spread/2 + rng.NormFloat64())

		precip := 0.0
		if rng.Float64() < 0.3 {
			precip = round2(rng.ExpFloat64() * 4)
			precip = math.Min(precip, 24)
		}
		wind := round2(math.Min(math.Abs(3+1.5*rng.NormFloat64()), 9.5))

		obs := domain.Observation{Date: date}
		obs.Set(domain.Precip, domain.Present(precip))
		obs.Set(domain.MaxTemp, domain.Present(maxT))
		obs.Set(domain.MinTemp, domain.Present(minT))
		obs.Set(domain.WindSpeed, domain.Present(wind))

		injectFaults(rng, &obs, rates)
		table = append(table, obs)
	}
	return table
}

func injectFaults(rng *rand.Rand, obs *domain.Observation, rates faultRates) {
	switch r := rng.Float64(); {
	case r < rates.swapped:
		maxT, minT := obs.Get(domain.MaxTemp), obs.Get(domain.MinTemp)
		obs.Set(domain.MaxTemp, minT)
		obs.Set(domain.MinTemp, maxT)
	case r < rates.swapped+rates.rangeFail:
		obs.Set(domain.MinTemp, domain.Present(round2(obs.Get(domain.MaxTemp).Float-26-5*rng.Float64())))
	}

	if rng.Float64() < rates.grossError {
		c := domain.Columns()[rng.IntN(domain.NumColumns)]
		limits := domain.GrossErrorLimits[c]
		obs.Set(c, domain.Present(round2(limits.Max+1+rng.Float64()*10)))
	}
	for _, c := range domain.Columns() {
		if rng.Float64() < rates.noData {
			obs.Set(c, domain.Present(domain.NoDataValue))
		}
	}
}

func writeRaw(path string, table domain.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := textfile.WriteObservations(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
