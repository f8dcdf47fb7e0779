//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/impact-effects-service/internal/domain"
	"github.com/couchcryptid/impact-effects-service/internal/scenario"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("impact-effects-test"))
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}), "create topic %s", topic)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadScenarios(t *testing.T) []scenario.Scenario {
	t.Helper()
	scenarios, err := scenario.Load(filepath.Join("..", "..", "data", "mock", "scenarios.csv"))
	require.NoError(t, err)
	return scenarios
}

// requestMessages encodes one request per scenario, keyed by request ID.
func requestMessages(t *testing.T, scenarios []scenario.Scenario, at time.Time) []kafkago.Message {
	t.Helper()
	msgs := make([]kafkago.Message, 0, len(scenarios))
	for i, sc := range scenarios {
		id := fmt.Sprintf("it-%02d", i+1)
		payload, err := json.Marshal(sc.Request(id, at))
		require.NoError(t, err)
		msgs = append(msgs, kafkago.Message{Key: []byte(id), Value: payload, Time: at})
	}
	return msgs
}

// assessedMessage is a decoded message from the sink topic.
type assessedMessage struct {
	Event   domain.AssessmentEvent
	Key     string
	Headers map[string]string
}

func readAssessed(ctx context.Context, t *testing.T, consumer *kafkago.Reader) assessedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.AssessmentEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return assessedMessage{Event: event, Key: string(msg.Key), Headers: headers}
}

func sinkConsumer(t *testing.T, broker, topic, group string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       topic,
		GroupID:     fmt.Sprintf("%s-%d", group, time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}
