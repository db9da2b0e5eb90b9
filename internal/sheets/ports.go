package sheets

import (
	"context"

	"courtsplit/internal/core"
)

// Ports for outbound adapters.
type (
	// DuesWriter replaces the exported dues table for one month.
	DuesWriter interface {
		WriteMonthlyDues(ctx context.Context, key core.MonthKey, dues []core.PlayerDue) error
	}
)
