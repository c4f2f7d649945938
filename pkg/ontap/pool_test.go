package ontap_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Heprex/automation/pkg/ontap"
	"github.com/Heprex/automation/utils/log"
)

const logName = "ontapTest.log"

func TestMain(m *testing.M) {
	log.MockInitLogging(logName)
	defer log.MockStopLogging(logName)

	m.Run()
}

type stubExecutor struct {
	cluster string
	mu      sync.Mutex
	closed  bool
}

func (s *stubExecutor) Execute(_ context.Context, _ string) (string, error) { return "", nil }
func (s *stubExecutor) Cluster() string                                     { return s.cluster }

func (s *stubExecutor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func TestPoolDialsEachClusterOnce(t *testing.T) {
	// arrange
	var dials int
	pool := ontap.NewPoolWithDial(ontap.Credentials{Username: "admin"},
		func(_ context.Context, cluster string, _ ontap.Credentials) (ontap.Executor, error) {
			dials++
			return &stubExecutor{cluster: cluster}, nil
		})

	// act
	first, err := pool.Get(context.Background(), "dr-cluster")
	require.NoError(t, err)
	second, err := pool.Get(context.Background(), "dr-cluster")
	require.NoError(t, err)
	_, err = pool.Get(context.Background(), "prod-cluster")
	require.NoError(t, err)

	// assert
	assert.Same(t, first, second)
	assert.Equal(t, 2, dials)
}

func TestPoolDoesNotCacheDialFailures(t *testing.T) {
	// arrange
	var dials int
	pool := ontap.NewPoolWithDial(ontap.Credentials{Username: "admin"},
		func(_ context.Context, cluster string, _ ontap.Credentials) (ontap.Executor, error) {
			dials++
			if dials == 1 {
				return nil, &ontap.ConnectionError{Cluster: cluster, Err: errors.New("refused")}
			}
			return &stubExecutor{cluster: cluster}, nil
		})

	// act
	_, err := pool.Get(context.Background(), "dr-cluster")

	// assert
	var connErr *ontap.ConnectionError
	assert.ErrorAs(t, err, &connErr)
	assert.Equal(t, "dr-cluster", connErr.Cluster)

	// act: the next Get retries the dial
	executor, err := pool.Get(context.Background(), "dr-cluster")
	assert.NoError(t, err)
	assert.NotNil(t, executor)
	assert.Equal(t, 2, dials)
}

func TestPoolCloseAllAllowsRedial(t *testing.T) {
	// arrange
	var dials int
	pool := ontap.NewPoolWithDial(ontap.Credentials{Username: "admin"},
		func(_ context.Context, cluster string, _ ontap.Credentials) (ontap.Executor, error) {
			dials++
			return &stubExecutor{cluster: cluster}, nil
		})
	executor, err := pool.Get(context.Background(), "dr-cluster")
	require.NoError(t, err)

	// act
	pool.CloseAll()

	// assert
	assert.True(t, executor.(*stubExecutor).closed)
	_, err = pool.Get(context.Background(), "dr-cluster")
	assert.NoError(t, err)
	assert.Equal(t, 2, dials)
}

func TestConnectionErrorUnwrap(t *testing.T) {
	// arrange
	cause := errors.New("handshake failed")
	err := &ontap.ConnectionError{Cluster: "dr-cluster", Err: cause}

	// assert
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "dr-cluster")
}
