// Package utils provides common utilities of the DR orchestrator
package utils

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MergeMap merges multiple maps into one, later keys win
func MergeMap(args ...map[string]interface{}) map[string]interface{} {
	newMap := make(map[string]interface{})
	for _, arg := range args {
		for k, v := range arg {
			newMap[k] = v
		}
	}

	return newMap
}

// WaitUntil polls f every interval until it returns true, an error occurs,
// the timeout elapses, or ctx is cancelled.
func WaitUntil(ctx context.Context, f func() (bool, error), timeout, interval time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := f()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return fmt.Errorf("timeout waiting for condition after %v", timeout)
		case <-ticker.C:
		}
	}
}

// ShortClusterName strips the domain suffix of a cluster FQDN and upper-cases
// the remainder, e.g. "cluster01.example.com" -> "CLUSTER01".
func ShortClusterName(cluster string) string {
	name, _, _ := strings.Cut(cluster, ".")
	return strings.ToUpper(name)
}

// Contains reports whether s is present in list.
func Contains[T comparable](list []T, s T) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
