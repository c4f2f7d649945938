package ontap

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/sync/semaphore"

	"github.com/Heprex/automation/utils/log"
	"github.com/Heprex/automation/utils/retry"
)

const (
	defaultSSHPort     = 22
	dialTimeout        = 15 * time.Second
	dialRetryAttempts  = 3
	dialRetryPeriod    = 2 * time.Second
	maxSessionsPerConn = 4
)

// Credentials is the account used to log in to a cluster management LIF.
type Credentials struct {
	Username string
	Password string
}

// SSHExecutor runs ONTAP CLI commands over a single SSH connection. ONTAP
// caps concurrent sessions per connection, so session creation is gated by a
// weighted semaphore.
type SSHExecutor struct {
	cluster  string
	client   *ssh.Client
	sessions *semaphore.Weighted
}

// Dial opens an SSH connection to the cluster management address. Transient
// dial failures are retried before a ConnectionError is returned.
func Dial(ctx context.Context, cluster string, creds Credentials) (*SSHExecutor, error) {
	config := &ssh.ClientConfig{
		User: creds.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(creds.Password),
		},
		// Cluster LIFs regenerate host keys on rebuild; operators rely on
		// the management VLAN for trust.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	}

	address := cluster
	if _, _, err := net.SplitHostPort(cluster); err != nil {
		address = fmt.Sprintf("%s:%d", cluster, defaultSSHPort)
	}

	var client *ssh.Client
	err := retry.Attempts(dialRetryAttempts).Period(dialRetryPeriod).Do(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		var dialErr error
		client, dialErr = ssh.Dial("tcp", address, config)
		if dialErr != nil {
			log.AddContext(ctx).Warningf("Dial cluster %s failed, will retry. error: %v", cluster, dialErr)
		}
		return dialErr
	})
	if err != nil {
		return nil, &ConnectionError{Cluster: cluster, Err: err}
	}

	log.AddContext(ctx).Infof("Connected to cluster %s as %s", cluster, creds.Username)
	return &SSHExecutor{
		cluster:  cluster,
		client:   client,
		sessions: semaphore.NewWeighted(maxSessionsPerConn),
	}, nil
}

// Execute runs one command in a fresh session and returns combined output.
func (e *SSHExecutor) Execute(ctx context.Context, command string) (string, error) {
	if err := e.sessions.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer e.sessions.Release(1)

	session, err := e.client.NewSession()
	if err != nil {
		return "", &ConnectionError{Cluster: e.cluster, Err: err}
	}
	defer session.Close()

	var output bytes.Buffer
	session.Stdout = &output
	session.Stderr = &output

	log.AddContext(ctx).Debugf("Execute on %s: %s", e.cluster, command)

	done := make(chan error, 1)
	go func() {
		done <- session.Run(command)
	}()

	select {
	case <-ctx.Done():
		// Best effort; ONTAP ignores signals on some command paths.
		_ = session.Signal(ssh.SIGKILL)
		return "", ctx.Err()
	case err = <-done:
	}

	if err != nil {
		if _, ok := err.(*ssh.ExitError); ok {
			// Command reached the cluster and failed there; output carries
			// the ONTAP error text.
			return output.String(), fmt.Errorf("command failed on %s: %s", e.cluster, output.String())
		}
		return "", &ConnectionError{Cluster: e.cluster, Err: err}
	}

	return output.String(), nil
}

// Cluster returns the cluster address this executor is bound to.
func (e *SSHExecutor) Cluster() string {
	return e.cluster
}

// Close tears down the SSH connection.
func (e *SSHExecutor) Close() error {
	return e.client.Close()
}
