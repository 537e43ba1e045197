package main

import (
	"github.com/Sajmani/smartfarm/smartfarm"
)

// apiClient encapsulates the smartfarm.Client methods for testing.
type apiClient interface {
	FarmRecords() ([]smartfarm.Record, error)
	CroppingSeasons(userID string) ([]smartfarm.Record, error)
}

var _ apiClient = (*smartfarm.Client)(nil)
