package publish

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/joshp123/gridgate/internal/config"
	"github.com/joshp123/gridgate/internal/core"
)

const (
	connectTimeout = 10 * time.Second
	fetchTimeout   = 30 * time.Second
)

// Publisher republishes plugin snapshots to an MQTT broker on a fixed
// interval. Failed fetches are logged and skipped; the next tick retries
// from scratch.
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	interval    time.Duration
	sources     map[string]core.SnapshotProvider
}

func New(cfg config.MQTTConfig, plugins []core.Plugin) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(randomClientID())
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	sources := make(map[string]core.SnapshotProvider)
	for _, plugin := range plugins {
		if provider, ok := plugin.(core.SnapshotProvider); ok {
			sources[plugin.ID()] = provider
		}
	}

	return &Publisher{
		client:      client,
		topicPrefix: cfg.TopicPrefix,
		interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		sources:     sources,
	}, nil
}

// Run publishes on every tick until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.publishAll(ctx)
		}
	}
}

func (p *Publisher) publishAll(ctx context.Context) {
	for id, source := range p.sources {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
		payload, err := source.SnapshotJSON(fetchCtx)
		cancel()
		if err != nil {
			log.Printf("publish %s: %v", id, err)
			continue
		}

		topic := p.topicPrefix + "/" + id + "/status"
		if token := p.client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("publish %s to %s: %v", id, topic, token.Error())
		}
	}
}

func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

func randomClientID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "gridgate-" + base64.RawURLEncoding.EncodeToString(b)
}
