package marketdatav1

import "context"

// DepthStore defines the interface for distributing depth snapshots.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=marketdatav1_mock
type DepthStore interface {
	// Store persists the latest snapshot and notifies subscribers.
	Store(ctx context.Context, snapshot *DepthSnapshot) error
	// Load returns the last stored snapshot, or nil when none exists.
	Load(ctx context.Context) (*DepthSnapshot, error)
}
