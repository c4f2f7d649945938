package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMergeMap(t *testing.T) {
	// arrange
	first := map[string]interface{}{"a": 1, "b": 1}
	second := map[string]interface{}{"b": 2, "c": 3}

	// act
	merged := MergeMap(first, second)

	// assert
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2, "c": 3}, merged)
}

func TestWaitUntilReturnsOnCondition(t *testing.T) {
	// arrange
	var polls int

	// act
	err := WaitUntil(context.Background(), func() (bool, error) {
		polls++
		return polls == 3, nil
	}, time.Second, time.Millisecond)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, polls)
}

func TestWaitUntilPropagatesError(t *testing.T) {
	// arrange
	cause := errors.New("query failed")

	// act
	err := WaitUntil(context.Background(), func() (bool, error) {
		return false, cause
	}, time.Second, time.Millisecond)

	// assert
	assert.ErrorIs(t, err, cause)
}

func TestWaitUntilTimesOut(t *testing.T) {
	// act
	err := WaitUntil(context.Background(), func() (bool, error) {
		return false, nil
	}, 20*time.Millisecond, 5*time.Millisecond)

	// assert
	assert.Error(t, err)
}

func TestWaitUntilHonorsCancellation(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	err := WaitUntil(ctx, func() (bool, error) {
		return false, nil
	}, time.Second, time.Millisecond)

	// assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShortClusterName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"dr-cluster01.example.com", "DR-CLUSTER01"},
		{"prodnas", "PRODNAS"},
		{"Cluster.sub.domain", "CLUSTER"},
	}

	for _, c := range cases {
		// assert
		assert.Equal(t, c.want, ShortClusterName(c.in))
	}
}

func TestContains(t *testing.T) {
	// assert
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, "a"))
}
