package myenergi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/joshp123/gridgate/internal/fault"
)

// statusResponse is the raw jstatus body: a keyed collection of device-type
// arrays.
type statusResponse struct {
	Eddi []eddiRecord `json:"eddi"`
}

type eddiRecord struct {
	DiversionW float64 `json:"div"`
	Status     int     `json:"stat"`
}

// Snapshot is the normalized dashboard shape for the eddi diverter.
type Snapshot struct {
	DiversionKW string `json:"diversion_kw"`
	Status      int    `json:"status"`
}

// normalize maps a fully-parsed jstatus body onto the dashboard snapshot.
// The first eddi record is authoritative; an empty array or absent key is
// reported as data-not-found rather than a zeroed snapshot.
func normalize(body []byte) (Snapshot, error) {
	var raw statusResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}, fault.New(vendor, "normalize", fault.UpstreamError, fmt.Errorf("decode status body: %w", err))
	}
	if len(raw.Eddi) == 0 {
		return Snapshot{}, fault.New(vendor, "normalize", fault.DataNotFound, errors.New("no eddi records"))
	}

	rec := raw.Eddi[0]
	return Snapshot{
		DiversionKW: formatKilowatts(rec.DiversionW),
		Status:      rec.Status,
	}, nil
}

// formatKilowatts converts a watt reading to a two-decimal kilowatt string.
func formatKilowatts(watts float64) string {
	return strconv.FormatFloat(watts/1000, 'f', 2, 64)
}
