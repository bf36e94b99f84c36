package models

import (
	"sort"
	"time"
)

type Device struct {
	ID          string
	Name        string
	IsOn        bool
	EnergyLimit float64
	LastUpdated time.Time
	UserIDs     []string
}

// DecodeDevice maps one source device node to its destination shape.
// A missing is_on means the device is on; only an explicit false turns it off.
func DecodeDevice(id string, raw interface{}, now time.Time) Device {
	node := AsMap(raw)
	d := Device{
		ID:          id,
		Name:        asString(node["name"]),
		IsOn:        true,
		EnergyLimit: asFloat(node["energy_limit"]),
		UserIDs:     UserIDSet(node["user_ids"]),
	}
	if on, ok := node["is_on"].(bool); ok {
		d.IsOn = on
	}
	if t, ok := asTime(node["last_updated"]); ok {
		d.LastUpdated = t
	} else {
		d.LastUpdated = now.UTC()
	}
	return d
}

// UserIDSet converts a set-as-mapping ({"u1": true}) or an already migrated
// sequence into a sorted list of distinct, non-empty user ids.
func UserIDSet(raw interface{}) []string {
	seen := make(map[string]struct{})
	switch v := raw.(type) {
	case map[string]interface{}:
		for id, member := range v {
			if b, ok := member.(bool); ok && !b {
				continue
			}
			seen[id] = struct{}{}
		}
	case []interface{}:
		for _, item := range v {
			seen[asString(item)] = struct{}{}
		}
	case []string:
		for _, item := range v {
			seen[item] = struct{}{}
		}
	}
	delete(seen, "")

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasLimit reports whether an energy limit is configured.
func (d Device) HasLimit() bool {
	return d.EnergyLimit > 0
}

func (d Device) Document() map[string]interface{} {
	userIDs := make([]string, len(d.UserIDs))
	copy(userIDs, d.UserIDs)
	return map[string]interface{}{
		"name":         d.Name,
		"is_on":        d.IsOn,
		"energy_limit": d.EnergyLimit,
		"last_updated": d.LastUpdated,
		"user_ids":     userIDs,
	}
}
