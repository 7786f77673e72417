package device

import "context"

// Repository defines the persistence operations for device contexts and
// codec bindings.
type Repository interface {
	GetContext(ctx context.Context, devEUI string) (*Context, error)

	// EnsureOrphan registers an unknown DevEUI with lifecycle ORPHAN so the
	// pipeline can park its uplinks until an operator assigns a model.
	// Already-registered devices are left untouched.
	EnsureOrphan(ctx context.Context, devEUI string, gatewayEUI *string) error

	// CodecName resolves a DevEUI to the codec registered for its model.
	// Returns ErrDeviceNotFound for unknown devices and ErrNoModelAssigned
	// for orphans.
	CodecName(ctx context.Context, devEUI string) (string, error)

	AssignBinding(ctx context.Context, devEUI string, bindingID int) error
	UpdateLastGateway(ctx context.Context, devEUI string, gatewayEUI string) error
	Archive(ctx context.Context, devEUI string) error
	ListContexts(ctx context.Context, filter *Filter) ([]*Context, error)

	GetBinding(ctx context.Context, id int) (*CodecBinding, error)
	ListBindings(ctx context.Context) ([]*CodecBinding, error)

	// SeedBindings inserts any of the given bindings whose model name is
	// not present yet, keeping the table in sync with the codec registry.
	SeedBindings(ctx context.Context, bindings []*CodecBinding) error
}

// Filter narrows ListContexts results.
type Filter struct {
	LifecycleState *LifecycleState
	OrphansOnly    bool
	Limit          int
	Offset         int
}
