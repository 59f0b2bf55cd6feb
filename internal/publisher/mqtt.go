package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// publishTimeout bounds how long a publish waits for broker
// acknowledgement before the message is dropped.
const publishTimeout = time.Second

// MQTTConfig configures the broker connection.
type MQTTConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	TLS      bool
	ClientID string
}

// MQTTPublisher publishes monitoring events to an MQTT broker. It relies
// on the client library's own AutoReconnect rather than implementing its
// own reconnect loop: the bus connection and the CNC session connection
// are independent failure domains.
type MQTTPublisher struct {
	client mqtt.Client
}

var _ Publisher = (*MQTTPublisher)(nil)

// NewMQTTPublisher creates a publisher and starts connecting in the
// background. It does not block on the initial connection: publishes
// made before the connection completes are simply dropped, which is
// consistent with this bus being best-effort.
func NewMQTTPublisher(cfg MQTTConfig) *MQTTPublisher {
	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("mqtt connection lost", "error", err)
		}).
		SetOnConnectHandler(func(_ mqtt.Client) {
			slog.Info("mqtt connected")
		})

	client := mqtt.NewClient(opts)
	client.Connect()

	return &MQTTPublisher{client: client}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// Connected reports whether the broker connection is currently up.
func (p *MQTTPublisher) Connected() bool {
	return p.client.IsConnectionOpen()
}

func (p *MQTTPublisher) publish(ctx context.Context, topic string, qos byte, v any) bool {
	if ctx.Err() != nil || !p.client.IsConnectionOpen() {
		return false
	}
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("mqtt publish: marshal failed", "topic", topic, "error", err)
		return false
	}

	// The monitoring loop never blocks past this bound waiting for the
	// broker to acknowledge: a message that can't be acknowledged in
	// time is dropped like any other publish failure.
	token := p.client.Publish(topic, qos, false, body)
	if !token.WaitTimeout(publishTimeout) {
		slog.Warn("mqtt publish timed out", "topic", topic)
		return false
	}
	if err := token.Error(); err != nil {
		slog.Warn("mqtt publish failed", "topic", topic, "error", err)
		return false
	}
	return true
}

func (p *MQTTPublisher) PublishToolChange(ctx context.Context, e ToolChangeEvent) bool {
	topic := toolChangeTopic(e.MachineID, e.Path)
	return p.publish(ctx, topic, QoSToolChange, newToolChangePayload(e))
}

func (p *MQTTPublisher) PublishError(ctx context.Context, e ErrorEvent) bool {
	topic := errorTopic(e.MachineID)
	return p.publish(ctx, topic, QoSError, newErrorPayload(e))
}

func (p *MQTTPublisher) PublishHeartbeat(ctx context.Context, e HeartbeatEvent) bool {
	topic := stateTopic(e.MachineID)
	return p.publish(ctx, topic, QoSHeartbeat, newHeartbeatPayload(e))
}
