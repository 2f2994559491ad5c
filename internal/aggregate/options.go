package aggregate

import (
	"github.com/Guliveer/twitch-browser-go/internal/constants"
	"github.com/Guliveer/twitch-browser-go/internal/logger"
)

// Options configures the aggregators.
type Options struct {
	Log *logger.Logger
	// MinViewCount is the view-count floor for offline followed channels.
	// Channels with view_count <= MinViewCount are hidden.
	MinViewCount int
	// HideOffline skips offline resolution for followed channels.
	HideOffline bool
	// Workers bounds concurrent user lookup batches.
	Workers int
}

// DefaultOptions returns Options with the default view-count floor.
func DefaultOptions() Options {
	return Options{
		Log:          logger.Discard(),
		MinViewCount: constants.DefaultMinViewCount,
		Workers:      constants.UserLookupWorkers,
	}
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = logger.Discard()
	}
	if o.Workers <= 0 {
		o.Workers = constants.UserLookupWorkers
	}
	return o
}
