package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// StorageVersion is the envelope version written by Save.
const StorageVersion = 1

// Store persists a dashboard.State.
type Store interface {
	// Load returns the saved state, or nil if nothing usable is stored.
	Load(ctx context.Context) (*dashboard.State, error)
	// Save replaces the stored state.
	Save(ctx context.Context, s dashboard.State) error
	// Clear removes the stored state.
	Clear(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Envelope is the persisted form of a dashboard.State.
type Envelope struct {
	Version           int                   `json:"version"`
	Dashboards        []dashboard.Dashboard `json:"dashboards"`
	ActiveDashboardID *string               `json:"activeDashboardId"`
}

// Marshal encodes s as a versioned envelope.
func Marshal(s dashboard.State) ([]byte, error) {
	env := Envelope{
		Version:           StorageVersion,
		Dashboards:        s.Dashboards,
		ActiveDashboardID: s.ActiveDashboardID,
	}
	if env.Dashboards == nil {
		env.Dashboards = []dashboard.Dashboard{}
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "marshal state")
	}
	return data, nil
}

// Unmarshal decodes an envelope. A version other than StorageVersion is
// logged and yields nil without an error.
func Unmarshal(data []byte, logger *log.Logger) (*dashboard.State, error) {
	var head struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "parse stored state")
	}
	if head.Version == nil || *head.Version != StorageVersion {
		got := "none"
		if head.Version != nil {
			got = fmt.Sprint(*head.Version)
		}
		logger.Warn("stored state version mismatch, ignoring", "version", got, "want", StorageVersion)
		return nil, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "parse stored state")
	}
	s := dashboard.State{
		Dashboards:        env.Dashboards,
		ActiveDashboardID: env.ActiveDashboardID,
	}
	if s.Dashboards == nil {
		s.Dashboards = []dashboard.Dashboard{}
	}
	return &s, nil
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
