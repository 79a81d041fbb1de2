package tabgrid

import (
	"github.com/tsawler/tabgrid/config"
)

// processOptions holds configuration for table reconstruction
type processOptions struct {
	// Page selection by page number; nil means all pages
	pages []int

	// Concurrency; 0 means one worker per CPU
	workers int

	// Calibration of every stage
	config config.File
}

// defaultOptions returns the default processing options
func defaultOptions() processOptions {
	return processOptions{
		pages:   nil, // nil means all pages
		workers: 0,
		config:  config.Default(),
	}
}

// clone creates a deep copy of processOptions
func (o processOptions) clone() processOptions {
	newOpts := processOptions{
		workers: o.workers,
		config:  o.config,
	}

	// Deep copy pages slice
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}

	return newOpts
}

// wants reports whether a page number is selected
func (o processOptions) wants(number int) bool {
	if o.pages == nil {
		return true
	}
	for _, p := range o.pages {
		if p == number {
			return true
		}
	}
	return false
}
