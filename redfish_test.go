package redfish_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redfish-fs/redfish"
)

func TestCoordinatorFanOutOneWay(t *testing.T) {
	fake := redfish.NewFakeMessenger()
	redfish.ImmediateSend(fake)

	c, err := redfish.NewCoordinator(fake, 2)
	require.NoError(t, err)

	_, err = c.Add(context.Background(), 0, &redfish.Message{}, 1, 100, time.Second, "peer-a")
	require.NoError(t, err)
	_, err = c.Add(context.Background(), 0, &redfish.Message{}, 1, 200, time.Second, "peer-b")
	require.NoError(t, err)

	assert.Equal(t, 2, c.Join())
	assert.Equal(t, "peer-a", c.Tag(0))
	assert.Equal(t, "peer-b", c.Tag(1))

	snap := c.Metrics()
	assert.Equal(t, uint64(2), snap.AddsIssued)
	assert.Equal(t, uint64(2), snap.SlotsFinished)
	assert.Equal(t, uint64(1), snap.JoinsCompleted)

	c.Reset()
	assert.Equal(t, 0, c.NumSent())
}

func TestCoordinatorCapacityCap(t *testing.T) {
	fake := redfish.NewFakeMessenger()
	redfish.ImmediateSend(fake)

	c, err := redfish.NewCoordinator(fake, 1)
	require.NoError(t, err)

	_, err = c.Add(context.Background(), 0, &redfish.Message{}, 1, 1, time.Second, nil)
	require.NoError(t, err)

	_, err = c.Add(context.Background(), 0, &redfish.Message{}, 1, 2, time.Second, nil)
	require.Error(t, err)
	assert.True(t, redfish.IsErrno(err, syscall.EMFILE))

	snap := c.Metrics()
	assert.Equal(t, uint64(1), snap.AddsIssued)
	assert.Equal(t, uint64(1), snap.AddsFailed)

	assert.Equal(t, 1, c.Join())
}

func TestCoordinatorStdReply(t *testing.T) {
	fake := redfish.NewFakeMessenger()
	redfish.ImmediateSend(fake)

	c, err := redfish.NewCoordinator(fake, 1)
	require.NoError(t, err)

	tr := &redfish.Transaction{IP: 0x0A000001, Port: 6000}
	err = c.StdReply(tr, -int32(syscall.EACCES), time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, c.NumSent())
}
