// Package ontap reaches ONTAP clusters over SSH and builds the CLI commands
// the orchestrator issues against them.
package ontap

import (
	"context"
	"fmt"
)

// Executor runs one ONTAP CLI command against a single cluster and returns
// its combined output. Implementations must be safe for concurrent use; the
// orchestrator never assumes a command is idempotent.
type Executor interface {
	// Execute runs the command and returns its output. Transport failures
	// are returned as *ConnectionError.
	Execute(ctx context.Context, command string) (string, error)

	// Cluster returns the cluster address this executor is bound to.
	Cluster() string

	// Close releases the underlying session resources.
	Close() error
}

// ConnectionError is a transport or authentication failure reaching a
// cluster. It is retryable and is always surfaced per relationship, never
// aborting sibling calls.
type ConnectionError struct {
	Cluster string
	Err     error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to cluster %s failed: %v", e.Cluster, e.Err)
}

// Unwrap returns the underlying transport error
func (e *ConnectionError) Unwrap() error {
	return e.Err
}
