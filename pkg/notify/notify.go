package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"k8s.io/klog/v2"
	"time"
)

const (
	DefaultTopic   = "scadatag/runs"
	defaultTimeout = 3 * time.Second
	qos            = 1
)

var (
	ErrConnect = errors.New("unable to connect to broker")
	ErrTimeout = errors.New("publish timed out")
)

// Event announces a written point table.
type Event struct {
	RunID     string    `json:"runId"`
	Dialect   string    `json:"dialect"`
	Family    string    `json:"family"`
	Template  string    `json:"template"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, e *Event) error
	Close()
}

type Options struct {
	Broker   string        `json:"broker"` // tcp://host:1883
	Topic    string        `json:"topic"`
	ClientID string        `json:"clientId"`
	Username string        `json:"username,omitempty"`
	Password string        `json:"password,omitempty"`
	Timeout  time.Duration `json:"timeout"`
}

func NewDefaultOptions() Options {
	return Options{
		Topic:    DefaultTopic,
		ClientID: "scadatag",
		Timeout:  defaultTimeout,
	}
}

// New connects to the configured broker, without a broker it returns a notifier that does nothing.
func New(o Options) (Notifier, error) {
	if len(o.Broker) == 0 {
		return Nop{}, nil
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if len(o.Topic) == 0 {
		o.Topic = DefaultTopic
	}

	opts := mqtt.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetConnectTimeout(o.Timeout).
		SetAutoReconnect(true)
	if len(o.Username) > 0 {
		opts.SetUsername(o.Username)
		opts.SetPassword(o.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		klog.V(2).InfoS("Lost broker connection", "broker", o.Broker, "err", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(o.Timeout) {
		return nil, fmt.Errorf("%w: %s: timeout after %v", ErrConnect, o.Broker, o.Timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, o.Broker, err)
	}
	klog.InfoS("Connected to broker", "broker", o.Broker, "topic", o.Topic)
	return newMQTTNotifier(client, o.Topic, o.Timeout), nil
}

// publisher is the part of mqtt.Client used for notifications.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type mqttNotifier struct {
	client  publisher
	topic   string
	timeout time.Duration
}

func newMQTTNotifier(client publisher, topic string, timeout time.Duration) *mqttNotifier {
	return &mqttNotifier{
		client:  client,
		topic:   topic,
		timeout: timeout,
	}
}

func (n *mqttNotifier) Notify(ctx context.Context, e *Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	token := n.client.Publish(n.topic, qos, false, payload)

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: after %v", ErrTimeout, n.timeout)
	}
}

func (n *mqttNotifier) Close() {
	n.client.Disconnect(250)
}

type Nop struct{}

func (Nop) Notify(context.Context, *Event) error { return nil }
func (Nop) Close()                               {}
