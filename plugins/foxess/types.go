package foxess

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/joshp123/gridgate/internal/fault"
)

// Realtime variable names as reported by the cloud.
const (
	varSolarPower = "pvPower"
	varSoC        = "SoC"
	varGridPower  = "gridConsumptionPower"
)

// datum is one named metric record in the realtime payload. Older firmware
// labels the name "key", newer labels it "variable".
type datum struct {
	Variable string `json:"variable"`
	Key      string `json:"key"`
	Value    any    `json:"value"`
}

func (d datum) name() string {
	if d.Variable != "" {
		return d.Variable
	}
	return d.Key
}

// Snapshot is the normalized dashboard shape for the inverter.
type Snapshot struct {
	SolarKW        float64 `json:"solar_kw"`
	BatteryPercent float64 `json:"battery_percent"`
	GridKW         float64 `json:"grid_kw"`
}

// normalize maps the realtime result onto the dashboard snapshot. A missing
// record reads as zero: partial telemetry is degraded, not failed. Power
// values are divided to kilowatts only for watt-reporting variants.
func normalize(result []byte, reportsWatts bool) (Snapshot, error) {
	if len(result) == 0 || string(result) == "null" {
		return Snapshot{}, fault.New(vendor, "normalize", fault.DataNotFound, errors.New("result absent"))
	}

	values := make(map[string]float64)

	var wrapped struct {
		Datas []datum `json:"datas"`
	}
	if err := json.Unmarshal(result, &wrapped); err == nil && len(wrapped.Datas) > 0 {
		for _, d := range wrapped.Datas {
			values[d.name()] = parseFloat(d.Value)
		}
	} else {
		// Flat-object variant.
		var flat map[string]any
		if err := json.Unmarshal(result, &flat); err != nil {
			return Snapshot{}, fault.New(vendor, "normalize", fault.UpstreamError, err)
		}
		for name, value := range flat {
			values[name] = parseFloat(value)
		}
	}

	scale := 1.0
	if reportsWatts {
		scale = 1000
	}

	return Snapshot{
		SolarKW:        round2(values[varSolarPower] / scale),
		BatteryPercent: round2(values[varSoC]),
		GridKW:         round2(values[varGridPower] / scale),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func parseFloat(value any) float64 {
	switch typed := value.(type) {
	case float64:
		return typed
	case float32:
		return float64(typed)
	case int64:
		return float64(typed)
	case int:
		return float64(typed)
	case string:
		if typed == "" {
			return 0
		}
		if parsed, err := strconv.ParseFloat(typed, 64); err == nil {
			return parsed
		}
	}
	return 0
}
