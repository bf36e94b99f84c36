package models

import "strconv"

type Reading struct {
	Timestamp   int64
	Power       float64
	Voltage     float64
	Current     float64
	Frequency   float64
	PowerFactor float64
	Energy      float64
}

// DecodeReading maps one daily reading keyed by its timestamp. The second
// return is false for an empty body, which is skipped rather than written.
func DecodeReading(key string, raw interface{}) (Reading, bool) {
	node := AsMap(raw)
	if len(node) == 0 {
		return Reading{}, false
	}
	r := Reading{
		Timestamp:   asInt64(node["timestamp"]),
		Power:       asFloat(node["power"]),
		Voltage:     asFloat(node["voltage"]),
		Current:     asFloat(node["current"]),
		Frequency:   asFloat(node["frequency"]),
		PowerFactor: asFloat(node["power_factor"]),
		Energy:      asFloat(node["energy"]),
	}
	if _, ok := node["timestamp"]; !ok {
		r.Timestamp = asInt64(key)
	}
	return r, true
}

func (r Reading) Document() map[string]interface{} {
	return map[string]interface{}{
		"timestamp":    r.Timestamp,
		"power":        r.Power,
		"voltage":      r.Voltage,
		"current":      r.Current,
		"frequency":    r.Frequency,
		"power_factor": r.PowerFactor,
		"energy":       r.Energy,
	}
}

// LatestKey returns the key with the greatest numeric value. Keys that do
// not parse as integers are ignored.
func LatestKey(keys []string) (string, bool) {
	var (
		best    string
		bestVal int64
		found   bool
	)
	for _, k := range keys {
		v, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		if !found || v > bestVal {
			best, bestVal, found = k, v, true
		}
	}
	return best, found
}
