package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"datapulse.api/internal/core/domain"
	"datapulse.api/internal/core/logger"
)

const publishTimeout = 5 * time.Second

// Publisher forwards scraper progress to an MQTT broker, one topic per scraper.
type Publisher struct {
	client mqtt.Client
	prefix string
}

// NewPublisher connects to brokerURL and returns a publisher for it.
func NewPublisher(brokerURL string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(fmt.Sprintf("datapulse-api-%d", time.Now().UnixNano()))
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	logger.Info("Connected to MQTT broker", "broker", brokerURL)
	return newPublisher(client), nil
}

func newPublisher(client mqtt.Client) *Publisher {
	return &Publisher{client: client, prefix: "datapulse"}
}

// Topic returns the topic progress of scraperID is published on.
func (p *Publisher) Topic(scraperID string) string {
	return fmt.Sprintf("%s/scrapers/%s/progress", p.prefix, scraperID)
}

func (p *Publisher) PublishProgress(ctx context.Context, progress domain.ScraperProgress) error {
	payload, err := json.Marshal(progress)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.Topic(progress.ScraperID), 0, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("mqtt publish to %s timed out", p.Topic(progress.ScraperID))
	}
	return token.Error()
}

// Close disconnects from the broker, giving in-flight messages 250ms.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
