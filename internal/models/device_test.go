package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)

func TestDecodeDevice_Defaults(t *testing.T) {
	d := DecodeDevice("dev1", map[string]interface{}{}, testNow)

	assert.Equal(t, "dev1", d.ID)
	assert.Equal(t, "", d.Name)
	assert.True(t, d.IsOn)
	assert.Equal(t, float64(0), d.EnergyLimit)
	assert.Equal(t, testNow, d.LastUpdated)
	assert.Empty(t, d.UserIDs)
	assert.False(t, d.HasLimit())
}

func TestDecodeDevice_ExplicitOff(t *testing.T) {
	d := DecodeDevice("dev1", map[string]interface{}{"is_on": false}, testNow)
	assert.False(t, d.IsOn)
}

func TestDecodeDevice_AllFields(t *testing.T) {
	raw := map[string]interface{}{
		"name":         "Kitchen",
		"is_on":        true,
		"energy_limit": float64(1000),
		"last_updated": float64(1700000000000),
		"user_ids":     map[string]interface{}{"u2": true, "u1": true},
	}
	d := DecodeDevice("dev1", raw, testNow)

	assert.Equal(t, "Kitchen", d.Name)
	assert.Equal(t, float64(1000), d.EnergyLimit)
	assert.True(t, d.HasLimit())
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), d.LastUpdated)
	assert.Equal(t, []string{"u1", "u2"}, d.UserIDs)
}

func TestDecodeDevice_NonMapIsEmpty(t *testing.T) {
	d := DecodeDevice("dev1", "garbage", testNow)
	assert.True(t, d.IsOn)
	assert.Equal(t, testNow, d.LastUpdated)
}

func TestUserIDSet(t *testing.T) {
	tests := []struct {
		name     string
		raw      interface{}
		expected []string
	}{
		{"set mapping", map[string]interface{}{"u1": true, "u2": true, "": true}, []string{"u1", "u2"}},
		{"false members dropped", map[string]interface{}{"u1": true, "u2": false}, []string{"u1"}},
		{"interface sequence", []interface{}{"u2", "u1", "u2"}, []string{"u1", "u2"}},
		{"string sequence", []string{"b", "a", ""}, []string{"a", "b"}},
		{"missing", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserIDSet(tt.raw))
		})
	}
}

func TestDevice_Document(t *testing.T) {
	d := Device{ID: "dev1", Name: "Heater", IsOn: true, EnergyLimit: 5, LastUpdated: testNow, UserIDs: []string{"u1"}}
	doc := d.Document()

	require.Len(t, doc, 5)
	assert.Equal(t, "Heater", doc["name"])
	assert.Equal(t, true, doc["is_on"])
	assert.Equal(t, float64(5), doc["energy_limit"])
	assert.Equal(t, testNow, doc["last_updated"])
	assert.Equal(t, []string{"u1"}, doc["user_ids"])

	// document holds its own copy
	doc["user_ids"].([]string)[0] = "changed"
	assert.Equal(t, "u1", d.UserIDs[0])
}
