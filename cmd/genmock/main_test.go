package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	start := time.Date(1915, 1, 1, 0, 0, 0, 0, time.UTC)
	a := generate(rand.New(rand.NewPCG(7, 7)), start, 200, defaultRates)
	b := generate(rand.New(rand.NewPCG(7, 7)), start, 200, defaultRates)
	assert.Equal(t, a, b)
	require.Len(t, a, 200)
	assert.Equal(t, start.AddDate(0, 0, 199), a[199].Date)
}

func TestGenerate_InjectsEveryFault(t *testing.T) {
	rates := faultRates{noData: 0.2, grossError: 0.2, swapped: 0.2, rangeFail: 0.2}
	table := generate(rand.New(rand.NewPCG(3, 3)), time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 500, rates)

	ledger := domain.NewLedger()
	for _, c := range domain.Checks() {
		table, ledger = c.Apply(table, ledger)
	}
	for _, name := range []string{domain.CheckNoData, domain.CheckGrossError, domain.CheckSwapped, domain.CheckRangeFail} {
		counts, ok := ledger.Row(name)
		require.True(t, ok)
		total := 0
		for _, n := range counts {
			total += n
		}
		assert.Positive(t, total, "check %s found nothing", name)
	}
}
