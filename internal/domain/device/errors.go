package device

import "errors"

var (
	ErrDeviceNotFound   = errors.New("device context not found")
	ErrBindingNotFound  = errors.New("codec binding not found")
	ErrNoModelAssigned  = errors.New("device has no model assigned")
	ErrAlreadyExists    = errors.New("device context already exists")
	ErrAssignmentFailed = errors.New("model assignment failed")
)
