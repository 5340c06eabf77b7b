// Package domain models daily weather observations and the quality checks
// applied to them.
//
// # Data Source
//
// Observations come from a single station's daily record, one row per day,
// carrying total precipitation, maximum and minimum air temperature, and mean
// wind speed. The raw file is whitespace-delimited with no header:
//
//	1915-01-01  0.00  -2.80  -12.20  3.10
//
// # Conventions
//
// Units:
//
//	Precip      mm/day
//	Max Temp    °C
//	Min Temp    °C
//	Wind Speed  m/s
//
// Missing values:
//
//	-999.00 is the station's sentinel for "no observation recorded". After
//	loading, a missing field is a [Value] with Valid == false. No code past
//	[RemoveNoDataValues] should ever compare against the sentinel.
//
// # Quality Checks
//
// The checks run in a fixed order, each appending one row to the [Ledger]:
//
//	1. No Data      sentinel -> missing
//	2. Gross Error  outside plausible range -> missing
//	                  Precip [0, 25]  Max/Min Temp [-25, 35]  Wind Speed [0, 10]
//	3. Swapped      Min Temp > Max Temp -> values exchanged
//	4. Range Fail   Max Temp - Min Temp > 25 -> both missing
//
// Order matters. Gross errors are removed before the swap check so that an
// implausible pair is never "repaired" into a plausible-looking one, and the
// range check runs on swapped pairs so the difference is never negative.
//
// Row "2. Gross Error" is derived rather than counted: the number of missing
// cells now, minus everything the ledger already attributes to earlier checks.
// See [RemoveGrossErrors].
package domain
