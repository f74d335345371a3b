package fillpublisherv1

import "context"

// FillPublisher defines the interface for publishing execution events.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=fillpublisherv1_mock
type FillPublisher interface {
	// PublishExecution publishes an execution event for downstream
	// settlement and reporting consumers.
	PublishExecution(ctx context.Context, event *ExecutionEvent) error
}
