package constants

import "time"

// Business thresholds that trigger mandatory approval. Amounts in paise.
const (
	SaleApprovalThresholdPaise   int64   = 50000_00
	DiscountApprovalThresholdPct float64 = 15
	PriceChangeApprovalPct       float64 = 10
)

// Priority bands for SALE_CREATE approvals, in paise.
const (
	SaleUrgentAbovePaise int64 = 100000_00
	SaleHighAbovePaise   int64 = 75000_00
)

// SLA windows before a pending approval gets its priority bumped and the
// admins are notified. Past twice the window the request auto-escalates.
const (
	SLAUrgent = 30 * time.Minute
	SLAHigh   = 2 * time.Hour
	SLAMedium = 8 * time.Hour
	SLALow    = 24 * time.Hour

	// Stale OPEN escalations trigger an assignee reminder past this age.
	EscalationReminderAge = 24 * time.Hour
)

// Sweeper cadence (cron spec).
const SweepCronSpec = "@every 2m"

// Pagination defaults for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
