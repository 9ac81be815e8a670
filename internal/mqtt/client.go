// Package mqtt bridges the backend to the window units' broker: device
// status payloads come in on the status topic and are ingested as
// telemetry; commands and safety alerts go out on per-device topics.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/service"
)

const (
	defaultTopicPrefix = "intelliglass"

	statusSuffix  = "status"
	commandSuffix = "command"
	alertSuffix   = "alert"

	qosAtLeastOnce = 1
	keepAlive      = 60 * time.Second
	pingTimeout    = 10 * time.Second
	disconnectMs   = 250
)

// Config holds MQTT client configuration.
type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string // defaults to "intelliglass"
}

// StatusHandler receives inbound device status payloads.
type StatusHandler func(deviceID string, payload []byte)

type Client struct {
	client paho.Client
	prefix string
	log    *logger.Logger
}

// The bridge is both the command transport and an alert sender.
var (
	_ service.CommandPublisher = (*Client)(nil)
	_ service.AlertSender      = (*Client)(nil)
)

// NewClient connects to the broker with auto-reconnect enabled.
func NewClient(cfg Config, log *logger.Logger) (*Client, error) {
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = defaultTopicPrefix
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(keepAlive)
	opts.SetPingTimeout(pingTimeout)
	opts.SetOnConnectHandler(func(paho.Client) {
		log.Infow("mqtt_connected", "broker", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Errorw("mqtt_connection_lost", "err", err)
	})

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to MQTT broker %q: %w", cfg.Broker, token.Error())
	}

	return &Client{client: client, prefix: prefix, log: log}, nil
}

// SubscribeStatus subscribes to every device's status topic and routes
// each message to the handler with the device id parsed from the topic.
func (c *Client) SubscribeStatus(handler StatusHandler) error {
	topic := fmt.Sprintf("%s/+/%s", c.prefix, statusSuffix)
	token := c.client.Subscribe(topic, qosAtLeastOnce, func(_ paho.Client, msg paho.Message) {
		deviceID, ok := deviceIDFromTopic(msg.Topic())
		if !ok {
			c.log.Infow("mqtt_status_bad_topic", "topic", msg.Topic())
			return
		}
		handler(deviceID, msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %q: %w", topic, token.Error())
	}
	c.log.Infow("mqtt_subscribed", "topic", topic)
	return nil
}

// PublishCommand sends a command to one device's command topic.
func (c *Client) PublishCommand(_ context.Context, deviceID string, cmd service.DeviceCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	return c.publish(c.deviceTopic(deviceID, commandSuffix), payload)
}

// Send publishes an alert to the device's alert topic. The recipient is
// carried in the payload so downstream push relays can address it.
func (c *Client) Send(_ context.Context, recipient string, a models.Alert) error {
	payload, err := json.Marshal(struct {
		models.Alert
		Recipient string `json:"recipient"`
	}{Alert: a, Recipient: recipient})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return c.publish(c.deviceTopic(a.DeviceID, alertSuffix), payload)
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (c *Client) Close() {
	c.client.Disconnect(disconnectMs)
	c.log.Infow("mqtt_disconnected")
}

func (c *Client) publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, qosAtLeastOnce, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish to %q: %w", topic, token.Error())
	}
	return nil
}

func (c *Client) deviceTopic(deviceID, suffix string) string {
	return fmt.Sprintf("%s/%s/%s", c.prefix, deviceID, suffix)
}

// deviceIDFromTopic extracts the device id from "<prefix>/<id>/<suffix>".
func deviceIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
