package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRunAt = "2024-04-26T15:10:00Z"

func TestSerializeObservation(t *testing.T) {
	obs := domain.Observation{
		Date: time.Date(1915, time.March, 4, 0, 0, 0, 0, time.UTC),
		Values: [domain.NumColumns]domain.Value{
			domain.Present(1.5), domain.Present(12), domain.Missing, domain.Present(0),
		},
	}

	msg, err := serializeObservation(obs, testRunAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("1915-03-04"), msg.Key)
	assert.JSONEq(t, `{"date":"1915-03-04","precip":1.5,"max_temp":12,"min_temp":null,"wind_speed":0}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, headerRecordType, msg.Headers[0].Key)
	assert.Equal(t, []byte(recordObservation), msg.Headers[0].Value)
	assert.Equal(t, headerRunAt, msg.Headers[1].Key)
	assert.Equal(t, []byte(testRunAt), msg.Headers[1].Value)
}

func TestSerializeLedgerRow(t *testing.T) {
	row := domain.LedgerRow{Check: domain.CheckSwapped, Counts: domain.Counts{0, 4, 4, 0}}

	msg, err := serializeLedgerRow(row, testRunAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("3. Swapped"), msg.Key)
	assert.JSONEq(t, `{"check":"3. Swapped","precip":0,"max_temp":4,"min_temp":4,"wind_speed":0}`, string(msg.Value))
	assert.Equal(t, []byte(recordLedger), msg.Headers[0].Value)
}
