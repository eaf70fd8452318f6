package routes

import (
	"fmt"
	"time"

	"github.com/travigo/journeyplanner/pkg/elastic_client"
)

type queryEvent struct {
	Timestamp time.Time `json:"@timestamp"`
	Query     string    `json:"query"`
	City      string    `json:"city"`
	Outcome   string    `json:"outcome"`
	Results   int       `json:"results"`
	Duration  float64   `json:"duration_ms"`

	Parameters map[string]string `json:"parameters"`
}

// indexQueryEvent records a handled query, a no-op when elasticsearch is not configured
func indexQueryEvent(query string, city string, startTime time.Time, results int, err error, parameters map[string]string) {
	currentTime := time.Now()

	elastic_client.IndexDocument(
		fmt.Sprintf("journeyplanner-queries-%d-%02d-%02d", currentTime.Year(), currentTime.Month(), currentTime.Day()),
		queryEvent{
			Timestamp:  currentTime,
			Query:      query,
			City:       city,
			Outcome:    queryOutcome(err),
			Results:    results,
			Duration:   float64(currentTime.Sub(startTime).Microseconds()) / 1000,
			Parameters: parameters,
		},
	)
}
