// Package telemetry publishes per-decode statistics from a device running
// image/png over MQTT, using a no-allocation client suited to the same
// memory-constrained devices the decoder targets.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	mqtt "github.com/soypat/natiu-mqtt"
)

// Stats summarizes one completed (or failed) decode.
type Stats struct {
	Width, Height int
	Scale         int
	Rows          int
	Duration      time.Duration
	Err           error
}

// Publisher pushes Stats to an MQTT broker under a fixed topic, reusing
// one connection and a fixed-size scratch buffer across publishes so it
// never allocates on the decode hot path.
type Publisher struct {
	client mqtt.Client
	conn   net.Conn
	topic  []byte
	scratch []byte
}

// Dial connects to an MQTT broker at addr and performs the CONNECT
// handshake under clientID, publishing future stats to topic.
func Dial(ctx context.Context, addr, clientID, topic string) (*Publisher, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial broker: %w", err)
	}

	rxBuf := make([]byte, 1024)
	client := mqtt.NewClient(mqtt.ClientConfig{
		Decoder: mqtt.DecoderNoAlloc{UserBuffer: rxBuf},
	})

	varconn := mqtt.VariablesConnect{
		ClientID:     []byte(clientID),
		Keepalive:    30,
		CleanSession: true,
	}
	if err := client.Connect(ctx, conn, &varconn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("telemetry: mqtt connect: %w", err)
	}

	return &Publisher{
		client:  client,
		conn:    conn,
		topic:   []byte(topic),
		scratch: make([]byte, 256),
	}, nil
}

// Publish sends s as a compact text payload. It is safe to call after a
// failed decode; Stats.Err, if set, is included in the payload.
func (p *Publisher) Publish(s Stats) error {
	payload := p.scratch[:0]
	payload = fmt.Appendf(payload, "w=%d h=%d scale=%d rows=%d dur_ms=%d",
		s.Width, s.Height, s.Scale, s.Rows, s.Duration.Milliseconds())
	if s.Err != nil {
		payload = fmt.Appendf(payload, " err=%q", s.Err.Error())
	}

	varPub := mqtt.VariablesPublish{
		TopicName: p.topic,
	}
	return p.client.PublishPayload(mqtt.Header{QoS: mqtt.QoS0}, varPub, payload)
}

// Close tears down the MQTT connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}

var _ io.Closer = (*Publisher)(nil)
