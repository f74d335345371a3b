package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	// DepthInterval is how often a depth snapshot is published.
	DepthInterval time.Duration
	// DepthLevels is the number of price levels per side in a snapshot.
	DepthLevels int
	// QueueSize is the capacity of the inbound request queue and of the
	// outbound execution queue.
	QueueSize int
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		DepthInterval: time.Second,
		DepthLevels:   10,
		QueueSize:     1024,
	}
}

// OptionsFromConfig builds engine options from the service configuration,
// falling back to defaults for unset values.
func OptionsFromConfig(depthInterval time.Duration, depthLevels, queueSize int) *Options {
	opts := DefaultEngineOptions()
	if depthInterval > 0 {
		opts.DepthInterval = depthInterval
	}
	if depthLevels > 0 {
		opts.DepthLevels = depthLevels
	}
	if queueSize > 0 {
		opts.QueueSize = queueSize
	}
	return opts
}
