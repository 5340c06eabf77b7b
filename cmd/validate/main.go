// Command validate checks the outputs of a weather-qc run: the cleaned data
// file and the ledger. It verifies the post-check invariants on the data,
// the ledger's shape, and, when the raw input is given, that re-running the
// checks on it reproduces both outputs exactly.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data data_qualitychecked.txt \
//	  -ledger data_failed_check_info.txt \
//	  -input DataQualityChecking.txt
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/weather-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-qc/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the cleaned data file")
	ledgerPath := flag.String("ledger", "", "path to the ledger file")
	inputPath := flag.String("input", "", "optional path to the raw input file")
	flag.Parse()

	if *dataPath == "" || *ledgerPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*dataPath, *ledgerPath, *inputPath); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, ledgerPath, inputPath string) int {
	fmt.Println("=== Weather QC Output Validation ===")
	fmt.Println()

	cleaned, err := loadTable(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load cleaned data: %v\n", err)
		return 1
	}
	ledger, err := loadLedger(ledgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load ledger: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCleanedData(cleaned),
		validateLedgerShape(ledger),
		validateConservation(cleaned, ledger),
	}

	if inputPath != "" {
		raw, err := loadTable(inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: load raw input: %v\n", err)
			return 1
		}
		phases = append(phases, validateReplay(raw, cleaned, ledger))
	}

	return report(phases, len(cleaned))
}

func report(phases []*phase, rows int) int {
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadTable(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return textfile.ReadObservations(f)
}

func loadLedger(path string) (domain.Ledger, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Ledger{}, err
	}
	defer f.Close()
	return textfile.ReadLedger(f)
}

// ── Phase 1: Cleaned data ──
// No sentinel survives, every present value is in range, and temperature
// pairs are ordered with a plausible daily range.

func validateCleanedData(table domain.Table) *phase {
	p := &phase{name: "Phase 1: Cleaned Data Invariants"}
	for i := range table {
		obs := &table[i]
		day := obs.Date.Format("2006-01-02")
		for _, c := range domain.Columns() {
			v := obs.Get(c)
			if !v.Valid {
				continue
			}
			if v.Float == domain.NoDataValue {
				p.errorf("%s: %s still holds the no-data sentinel", day, c)
				continue
			}
			if limits := domain.GrossErrorLimits[c]; !limits.Contains(v.Float) {
				p.errorf("%s: %s=%g outside [%g, %g]", day, c, v.Float, limits.Min, limits.Max)
			}
		}

		maxT, minT := obs.Get(domain.MaxTemp), obs.Get(domain.MinTemp)
		if !maxT.Valid || !minT.Valid {
			continue
		}
		if minT.Float > maxT.Float {
			p.errorf("%s: Min Temp %g > Max Temp %g", day, minT.Float, maxT.Float)
		}
		if maxT.Float-minT.Float > domain.MaxDiurnalRange {
			p.errorf("%s: daily range %g exceeds %g", day, maxT.Float-minT.Float, domain.MaxDiurnalRange)
		}
	}
	return p
}

// ── Phase 2: Ledger shape ──

func validateLedgerShape(ledger domain.Ledger) *phase {
	p := &phase{name: "Phase 2: Ledger Shape"}

	want := []string{domain.CheckNoData, domain.CheckGrossError, domain.CheckSwapped, domain.CheckRangeFail}
	rows := ledger.Rows()
	if len(rows) != len(want) {
		p.errorf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := 0; i < len(rows) && i < len(want); i++ {
		if rows[i].Check != want[i] {
			p.errorf("row %d: expected %q, got %q", i+1, want[i], rows[i].Check)
		}
	}

	for _, r := range rows {
		for _, c := range domain.Columns() {
			if r.Counts[c] < 0 {
				p.errorf("%s: negative count %d for %s", r.Check, r.Counts[c], c)
			}
		}
	}
	for _, name := range []string{domain.CheckSwapped, domain.CheckRangeFail} {
		counts, ok := ledger.Row(name)
		if !ok {
			continue
		}
		if counts[domain.Precip] != 0 || counts[domain.WindSpeed] != 0 {
			p.errorf("%s: Precip and Wind Speed must be 0, got %d and %d", name, counts[domain.Precip], counts[domain.WindSpeed])
		}
		if counts[domain.MaxTemp] != counts[domain.MinTemp] {
			p.errorf("%s: Max Temp (%d) and Min Temp (%d) differ", name, counts[domain.MaxTemp], counts[domain.MinTemp])
		}
	}
	return p
}

// ── Phase 3: Conservation ──
// Every missing cell in the output is attributed to exactly one nulling check.

func validateConservation(table domain.Table, ledger domain.Ledger) *phase {
	p := &phase{name: "Phase 3: Ledger Conservation"}
	for _, c := range domain.Columns() {
		nulled := ledger.Get(domain.CheckNoData, c) + ledger.Get(domain.CheckGrossError, c) + ledger.Get(domain.CheckRangeFail, c)
		if nulled > len(table) {
			p.errorf("%s: %d values nulled but only %d rows", c, nulled, len(table))
		}
		if missing := table.MissingCount(c); missing != nulled {
			p.errorf("%s: %d missing in data, ledger accounts for %d", c, missing, nulled)
		}
	}
	return p
}

// ── Phase 4: Replay ──
// Re-running the checks on the raw input reproduces both outputs.

func validateReplay(raw, cleaned domain.Table, ledger domain.Ledger) *phase {
	p := &phase{name: "Phase 4: Replay (raw input vs outputs)"}

	table, replayed := raw.Clone(), domain.NewLedger()
	for _, c := range domain.Checks() {
		table, replayed = c.Apply(table, replayed)
	}

	if len(table) != len(cleaned) {
		p.errorf("row count: replay has %d, cleaned data has %d", len(table), len(cleaned))
		return p
	}
	for i := range table {
		if !table[i].Date.Equal(cleaned[i].Date) {
			p.errorf("row %d: date %s, cleaned data has %s", i+1, table[i].Date.Format("2006-01-02"), cleaned[i].Date.Format("2006-01-02"))
			continue
		}
		for _, c := range domain.Columns() {
			if !sameValue(table[i].Get(c), cleaned[i].Get(c)) {
				p.errorf("row %d %s: replay %s, cleaned data %s", i+1, c,
					textfile.FormatValue(table[i].Get(c)), textfile.FormatValue(cleaned[i].Get(c)))
			}
		}
	}

	got := ledger.Rows()
	for i, want := range replayed.Rows() {
		if i >= len(got) {
			p.errorf("ledger missing row %q", want.Check)
			continue
		}
		if got[i] != want {
			p.errorf("ledger row %q: expected %v, got %v", want.Check, want.Counts, got[i].Counts)
		}
	}
	return p
}

// sameValue compares values as they are spelled in the output file.
func sameValue(a, b domain.Value) bool {
	return textfile.FormatValue(a) == textfile.FormatValue(b)
}
