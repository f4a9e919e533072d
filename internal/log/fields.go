package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldEntryID    = "entry_id"
	FieldLoanID     = "loan_id"
	FieldCollection = "collection"
	FieldBackend    = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentReminder = "reminder"
)
