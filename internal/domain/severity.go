package domain

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ConfirmationKind controls how a pending confirmation is presented.
type ConfirmationKind string

const (
	ConfirmationDanger  ConfirmationKind = "danger"
	ConfirmationWarning ConfirmationKind = "warning"
	ConfirmationInfo    ConfirmationKind = "info"
)
