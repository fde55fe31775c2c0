package notification

import (
	"fmt"

	"github.com/google/uuid"
)

// Email kinds, also used as metric and log labels.
const (
	KindOperatorAlert       = "operator_alert"
	KindVisitorConfirmation = "visitor_confirmation"
)

// NotificationError reports one failed email. It is logged and counted, never
// returned to the intake caller.
type NotificationError struct {
	Kind   string
	LeadID uuid.UUID
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %s for lead %s: %v", e.Kind, e.LeadID, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
