package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldOwnerID    = "owner_id"
	FieldTxID       = "transaction_id"
	FieldTxType     = "transaction_type"
	FieldCategory   = "category"
	FieldAmount     = "amount"
	FieldCount      = "transaction_count"
	FieldMode       = "mode"
	FieldPremium    = "premium"
)

// Component names used across the application
const (
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentTaxonomy = "taxonomy"
	ComponentIdentity = "identity"
	ComponentRemote   = "remote"
	ComponentEvents   = "events"
	ComponentWorker   = "worker"
	ComponentApp      = "app"
)
