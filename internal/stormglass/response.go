package stormglass

import (
	"encoding/json"
	"fmt"
)

// Response is the body of a point forecast request
type Response struct {
	Hours []Hour `json:"hours"`
	Meta  Meta   `json:"meta"`
}

// Meta carries request accounting returned alongside the data
type Meta struct {
	Cost         int      `json:"cost"`
	DailyQuota   int      `json:"dailyQuota"`
	RequestCount int      `json:"requestCount"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
	Params       []string `json:"params"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
}

// Hour is one hourly entry. Every field other than time maps a data source name
// (e.g. "sg", "noaa", "icon") to that source's reading.
type Hour struct {
	Time   string
	Values map[string]map[string]float64
}

// Sources returns every source reading for a field
func (h Hour) Sources(field string) map[string]float64 {
	return h.Values[field]
}

// Value returns the reading of a single source for a field
func (h Hour) Value(field, source string) (float64, bool) {
	v, ok := h.Values[field][source]
	return v, ok
}

// UnmarshalJSON decodes the flat {"time": ..., "<field>": {"<source>": n}} layout.
// Null readings are dropped, so a source reporting null counts as absent.
func (h *Hour) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	h.Time = ""
	h.Values = make(map[string]map[string]float64, len(raw))
	for key, value := range raw {
		if key == "time" {
			if err := json.Unmarshal(value, &h.Time); err != nil {
				return fmt.Errorf("decoding time: %w", err)
			}
			continue
		}
		var readings map[string]*float64
		if err := json.Unmarshal(value, &readings); err != nil {
			return fmt.Errorf("decoding %s: %w", key, err)
		}
		sources := make(map[string]float64, len(readings))
		for source, v := range readings {
			// null means the source has no reading for this hour
			if v != nil {
				sources[source] = *v
			}
		}
		h.Values[key] = sources
	}
	return nil
}
