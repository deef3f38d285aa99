package kafkasink

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
)

func TestNewWriter(t *testing.T) {
	w := NewWriter([]string{"localhost:9092"}, "snowbelt-results", slog.Default())
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "kafka", w.Name())
	assert.Equal(t, "snowbelt-results", w.writer.Topic)
}

func TestTableMessage(t *testing.T) {
	generatedAt := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)
	stations := []domain.FilteredStation{
		{ID: "snotel-001", Name: "Ridge Site", Point: orb.Point{-106.3, 39.1}, DurationDays: 155, ElevationMeters: 2840.5},
		{ID: "snotel-002", Name: "Pass Site", Point: orb.Point{-106.1, 39.3}, DurationDays: 130, ElevationMeters: 3100},
	}

	msg, err := tableMessage("filtered_stations", generatedAt, len(stations), stations)
	require.NoError(t, err)

	assert.Equal(t, []byte("filtered_stations"), msg.Key)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "filtered_stations", headers["table"])
	assert.Equal(t, "2", headers["rows"])
	assert.Equal(t, "2026-02-10T12:00:00Z", headers["generated_at"])

	var decoded []domain.FilteredStation
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, stations, decoded)
}

func TestTableMessage_EmptyTable(t *testing.T) {
	msg, err := tableMessage("cities_in_range", time.Now(), 0, []domain.CityInRange{})
	require.NoError(t, err)

	assert.Equal(t, []byte("cities_in_range"), msg.Key)
	assert.JSONEq(t, "[]", string(msg.Value))
}
