package foxess

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector collects inverter metrics.
type MetricsCollector struct {
	client *Client

	scrapeSuccess  prometheus.Gauge
	lastSuccess    prometheus.Gauge
	solarKW        prometheus.Gauge
	batteryPercent prometheus.Gauge
	gridKW         prometheus.Gauge
}

func NewMetricsCollector(client *Client) *MetricsCollector {
	return &MetricsCollector{
		client: client,
		scrapeSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_foxess_scrape_success",
			Help: "Last scrape success (1=ok, 0=error)",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_foxess_last_success_timestamp_seconds",
			Help: "Last successful scrape timestamp (epoch seconds)",
		}),
		solarKW: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_foxess_solar_kw",
			Help: "Current solar generation (kW)",
		}),
		batteryPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_foxess_battery_percent",
			Help: "Battery state of charge (percent)",
		}),
		gridKW: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gridgate_foxess_grid_kw",
			Help: "Current grid consumption (kW)",
		}),
	}
}

func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	c.scrapeSuccess.Describe(ch)
	c.lastSuccess.Describe(ch)
	c.solarKW.Describe(ch)
	c.batteryPercent.Describe(ch)
	c.gridKW.Describe(ch)
}

func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if c.client == nil {
		c.scrapeSuccess.Set(0)
		c.collectAll(ch)
		return
	}

	snapshot, err := c.client.Realtime(ctx)
	if err != nil {
		c.scrapeSuccess.Set(0)
		c.collectAll(ch)
		return
	}

	c.scrapeSuccess.Set(1)
	c.lastSuccess.Set(float64(time.Now().Unix()))
	c.solarKW.Set(snapshot.SolarKW)
	c.batteryPercent.Set(snapshot.BatteryPercent)
	c.gridKW.Set(snapshot.GridKW)
	c.collectAll(ch)
}

func (c *MetricsCollector) collectAll(ch chan<- prometheus.Metric) {
	c.scrapeSuccess.Collect(ch)
	c.lastSuccess.Collect(ch)
	c.solarKW.Collect(ch)
	c.batteryPercent.Collect(ch)
	c.gridKW.Collect(ch)
}
