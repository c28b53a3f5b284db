// Registry keeps versioned snapshots of running routers, keyed by router ID.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/staterouter/internal/primitives"
)

// Registry manages versioned snapshots of running Router instances.
type Registry interface {
	// Register saves the snapshot under its sequence number.
	Register(ctx context.Context, routerID string, snapshot Snapshot) error

	// Latest returns the most recent snapshot for routerID.
	Latest(ctx context.Context, routerID string) (Snapshot, error)

	// Version returns the snapshot recorded at a specific sequence.
	Version(ctx context.Context, routerID string, seq uint64) (Snapshot, error)

	// ListVersions returns the recorded sequences for routerID, newest first.
	ListVersions(ctx context.Context, routerID string) ([]uint64, error)

	// ListRouters returns all router IDs.
	ListRouters(ctx context.Context) ([]string, error)
}

var (
	ErrNotFound = errors.New("router or version not found")
	ErrExists   = errors.New("version already exists")
)

// Snapshot is the serializable position of a router: the active leaf, its
// context and URL. It does not carry the state tree; restoring requires a
// router built from the same configuration.
type Snapshot struct {
	RouterID      string             `json:"routerID" yaml:"routerID"`
	ConfigVersion string             `json:"configVersion" yaml:"configVersion"`
	Sequence      uint64             `json:"sequence" yaml:"sequence"`
	Current       string             `json:"current" yaml:"current"`
	URL           string             `json:"url" yaml:"url"`
	Context       primitives.Context `json:"context,omitempty" yaml:"context,omitempty"`
	Timestamp     time.Time          `json:"timestamp" yaml:"timestamp"`
}
