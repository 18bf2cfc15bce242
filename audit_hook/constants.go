package audithook

// Action constants for audit events.
const (
	// Issuance actions
	ActionIssuanceCreated = "issuance.created"

	// Trading actions
	ActionTokensPurchased = "trade.purchased"
	ActionTokensSold      = "trade.sold"
	ActionTradeRejected   = "trade.rejected"

	// Reserve actions
	ActionReserveWithdrawn = "reserve.withdrawn"

	// Journal actions
	ActionJournalFlushed = "journal.flushed"
)

// Resource constants for audit events.
const (
	ResourceIssuance   = "issuance"
	ResourceTrade      = "trade"
	ResourceReserve    = "reserve"
	ResourceWithdrawal = "withdrawal"
	ResourceJournal    = "journal"
)

// Category constants for audit events.
const (
	CategoryIssuance = "issuance"
	CategoryTrading  = "trading"
	CategoryTreasury = "treasury"
	CategoryAudit    = "audit"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
