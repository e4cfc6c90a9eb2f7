// Package events publishes domain events to RabbitMQ.
package events

import "time"

// ImportCompleted is emitted after a spreadsheet import finished, fully or
// partially. Imported counts the customers created before any failure.
type ImportCompleted struct {
	Filename   string    `json:"filename"`
	Imported   int       `json:"imported"`
	Failed     bool      `json:"failed"`
	FailedRow  int       `json:"failed_row,omitempty"`
	Error      string    `json:"error,omitempty"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
