package ontap

import (
	"context"
	"sync"

	"github.com/Heprex/automation/utils/log"
)

// DialFunc opens an executor for a cluster. It exists so tests can substitute
// a fake transport.
type DialFunc func(ctx context.Context, cluster string, creds Credentials) (Executor, error)

// Pool hands out one shared executor per cluster, dialing lazily on first
// use. Both sides of every relationship of an application go through the same
// pool, so a session touches each cluster at most once.
type Pool struct {
	creds Credentials
	dial  DialFunc

	mu        sync.Mutex
	executors map[string]Executor
}

// NewPool builds a pool that dials with the given credentials.
func NewPool(creds Credentials) *Pool {
	return &Pool{
		creds: creds,
		dial: func(ctx context.Context, cluster string, creds Credentials) (Executor, error) {
			return Dial(ctx, cluster, creds)
		},
		executors: make(map[string]Executor),
	}
}

// NewPoolWithDial builds a pool with a custom dial function.
func NewPoolWithDial(creds Credentials, dial DialFunc) *Pool {
	return &Pool{
		creds:     creds,
		dial:      dial,
		executors: make(map[string]Executor),
	}
}

// Get returns the executor for a cluster, dialing it if needed. A dial
// failure is not cached; the next Get retries.
func (p *Pool) Get(ctx context.Context, cluster string) (Executor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if executor, ok := p.executors[cluster]; ok {
		return executor, nil
	}

	executor, err := p.dial(ctx, cluster, p.creds)
	if err != nil {
		return nil, err
	}

	p.executors[cluster] = executor
	return executor, nil
}

// CloseAll closes every open connection. The pool stays usable; closed
// clusters are re-dialed on the next Get.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for cluster, executor := range p.executors {
		if err := executor.Close(); err != nil {
			log.Warningf("Close connection to %s failed. error: %v", cluster, err)
		}
		delete(p.executors, cluster)
	}
}
