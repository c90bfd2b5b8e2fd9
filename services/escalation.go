package services

import (
	"time"

	"github.com/kendall-kelly/pedidos-api/models"
)

// Escalation thresholds in whole days since the last update
const (
	MediumAfterDays = 4
	HighAfterDays   = 5
)

// EscalatePriority returns the priority an order should have after elapsedDays
// without updates. Terminal orders are never escalated. The HIGH threshold
// overrides the MEDIUM one; below both the priority is kept.
func EscalatePriority(current models.Priority, status models.Status, elapsedDays int) models.Priority {
	if status.IsTerminal() {
		return current
	}
	switch {
	case elapsedDays >= HighAfterDays:
		return models.PriorityHigh
	case elapsedDays >= MediumAfterDays:
		return models.PriorityMedium
	default:
		return current
	}
}

// ElapsedDays counts whole 24h periods between last and now, never negative
func ElapsedDays(last, now time.Time) int {
	if now.Before(last) {
		return 0
	}
	return int(now.Sub(last) / (24 * time.Hour))
}
