package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datapulse.api/internal/core/domain"
)

type doneToken struct {
	mqtt.Token
	err error
}

func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t doneToken) Error() error { return t.err }

type recordingClient struct {
	mqtt.Client
	topics   []string
	payloads [][]byte
	err      error
}

func (c *recordingClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, payload.([]byte))
	return doneToken{err: c.err}
}

func TestPublishProgressTopicAndPayload(t *testing.T) {
	client := &recordingClient{}
	pub := newPublisher(client)

	p := domain.ScraperProgress{ScraperID: "scraper-004", RunID: "r1", Step: 2, TotalSteps: 11, Status: domain.RunStatusRunning}
	require.NoError(t, pub.PublishProgress(context.Background(), p))

	require.Equal(t, []string{"datapulse/scrapers/scraper-004/progress"}, client.topics)
	var got domain.ScraperProgress
	require.NoError(t, json.Unmarshal(client.payloads[0], &got))
	assert.Equal(t, p, got)
}

func TestPublishProgressBrokerError(t *testing.T) {
	client := &recordingClient{err: errors.New("not connected")}
	pub := newPublisher(client)

	err := pub.PublishProgress(context.Background(), domain.ScraperProgress{ScraperID: "scraper-001"})
	assert.EqualError(t, err, "not connected")
}
