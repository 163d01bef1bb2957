package myenergi

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector collects eddi diverter metrics.
type MetricsCollector struct {
	client *Client

	scrapeSuccess prometheus.Gauge
	lastSuccess   prometheus.Gauge
	diversionKW   prometheus.Gauge
	deviceStatus  prometheus.Gauge
}

func NewMetricsCollector(client *Client) *MetricsCollector {
	return &MetricsCollector{
		client: client,
		scrapeSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_myenergi_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_myenergi_last_success_timestamp_seconds",
			Help: "Last successful scrape timestamp (epoch seconds)",
		}),
		diversionKW: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_myenergi_diversion_kw",
			Help: "Current eddi diversion power (kW)",
		}),
		deviceStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_myenergi_device_status",
			Help: "Enumerated eddi device state",
		}),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.scrapeSuccess.Describe(ch)
	c.lastSuccess.Describe(ch)
	c.diversionKW.Describe(ch)
	c.deviceStatus.Describe(ch)
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if c.client == nil {
		c.scrapeSuccess.Set(0)
		c.collectAll(ch)
		return
	}

	snapshot, err := c.client.Status(ctx)
	if err != nil {
		c.scrapeSuccess.Set(0)
		c.collectAll(ch)
		return
	}

	c.scrapeSuccess.Set(1)
	c.lastSuccess.Set(float64(time.Now().Unix()))
	if kw, err := strconv.ParseFloat(snapshot.DiversionKW, 64); err == nil {
		c.diversionKW.Set(kw)
	}
	c.deviceStatus.Set(float64(snapshot.Status))
	c.collectAll(ch)
}

func (c *MetricsCollector) collectAll(ch chan<- prometheus.Metric) {
	c.scrapeSuccess.Collect(ch)
	c.lastSuccess.Collect(ch)
	c.diversionKW.Collect(ch)
	c.deviceStatus.Collect(ch)
}
