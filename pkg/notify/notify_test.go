package notify

import (
	"context"
	"encoding/json"
	"errors"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func (t *fakeToken) Wait() bool                     { <-t.done; return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeClient struct {
	topic        string
	payload      []byte
	token        *fakeToken
	disconnected bool
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.payload = payload.([]byte)
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func completed(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func TestNewWithoutBroker(t *testing.T) {
	n, err := New(NewDefaultOptions())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.Notify(context.Background(), &Event{}))
}

func TestNotify(t *testing.T) {
	c := &fakeClient{token: completed(nil)}
	n := newMQTTNotifier(c, DefaultTopic, time.Second)

	e := &Event{RunID: "r1", Dialect: "kingscada", Family: "SIEMENS", Template: "pump.json", Path: "/tmp/x.csv", Rows: 4}
	require.NoError(t, n.Notify(context.Background(), e))
	assert.Equal(t, DefaultTopic, c.topic)

	var got Event
	require.NoError(t, json.Unmarshal(c.payload, &got))
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, 4, got.Rows)

	n.Close()
	assert.True(t, c.disconnected)
}

func TestNotifyFailures(t *testing.T) {
	boom := errors.New("boom")
	n := newMQTTNotifier(&fakeClient{token: completed(boom)}, DefaultTopic, time.Second)
	assert.ErrorIs(t, n.Notify(context.Background(), &Event{}), boom)

	pending := &fakeToken{done: make(chan struct{})}
	n = newMQTTNotifier(&fakeClient{token: pending}, DefaultTopic, 10*time.Millisecond)
	assert.ErrorIs(t, n.Notify(context.Background(), &Event{}), ErrTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n = newMQTTNotifier(&fakeClient{token: pending}, DefaultTopic, time.Second)
	assert.ErrorIs(t, n.Notify(ctx, &Event{}), context.Canceled)
}
