package device

import "time"

// LifecycleState tracks how a device context entered and left the fleet.
type LifecycleState string

const (
	StateNewOrphan LifecycleState = "NEW_ORPHAN"
	StateOrphan    LifecycleState = "ORPHAN"
	StateAssigned  LifecycleState = "ASSIGNED"
	StateArchived  LifecycleState = "ARCHIVED"
)

// Context is the registration record for one DevEUI. CodecBindingID is nil
// for orphans: devices that sent traffic before anyone registered their
// model. Contexts are never hard-deleted, only archived.
type Context struct {
	DevEUI         string
	Name           *string
	CodecBindingID *int
	LastGateway    *string
	LifecycleState LifecycleState
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AssignedAt     time.Time
	ArchivedAt     *time.Time
}

// IsOrphan reports whether the context still needs a model assignment.
func (c *Context) IsOrphan() bool {
	return c.CodecBindingID == nil
}

// CodecBinding names one device model and the registry codec that decodes
// its frames, e.g. ("Browan TBHH100", "browan_tbhh100").
type CodecBinding struct {
	ID          int
	Model       string
	Description *string
	Codec       string
	CreatedAt   time.Time
	ArchivedAt  *time.Time
}
