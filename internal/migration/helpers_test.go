package migration

import (
	"energymon/internal/store"
	"energymon/internal/structures"
	"energymon/internal/testutil"
	"strconv"
)

func testConfig() *structures.Config {
	return &structures.Config{
		Source: structures.SourceConfig{
			Kind:           "file",
			UsersPath:      "users",
			DevicesPath:    "devices",
			ReadingsPath:   "readings/daily",
			ChatsPath:      "telegram/chats",
			LastUpdatePath: "telegram/last_update_id",
		},
		Destination: structures.DestinationConfig{
			Kind:               "memory",
			UsersCollection:    "users",
			DevicesCollection:  "devices",
			ReadingsCollection: "daily_readings",
			RegistryDocument:   "telegram/registry",
		},
		Migration: structures.MigrationConfig{BatchSize: 500},
	}
}

func readingsFor(n int) map[string]interface{} {
	out := make(map[string]interface{}, n)
	for i := 0; i < n; i++ {
		ts := 1700000000000 + int64(i)*60000
		out[strconv.FormatInt(ts, 10)] = map[string]interface{}{
			"timestamp": float64(ts),
			"energy":    float64(i),
		}
	}
	return out
}

func sourceTree() map[string]interface{} {
	d1 := readingsFor(3)
	d1["1699999999999"] = map[string]interface{}{}
	return map[string]interface{}{
		"users": map[string]interface{}{
			"u1": map[string]interface{}{"email": "a@example.com", "devices": map[string]interface{}{"d1": "Kitchen"}},
			"u2": map[string]interface{}{"email": "b@example.com"},
		},
		"devices": map[string]interface{}{
			"d1": map[string]interface{}{"name": "Plug 1", "energy_limit": 1000.0, "user_ids": map[string]interface{}{"u1": true}},
			"d2": map[string]interface{}{"name": "Plug 2", "is_on": false},
		},
		"readings": map[string]interface{}{
			"daily": map[string]interface{}{
				"d1": d1,
				"d2": readingsFor(2),
			},
		},
		"telegram": map[string]interface{}{
			"chats": map[string]interface{}{
				"111": map[string]interface{}{"chat_id": 111.0, "username": "alice"},
				"222": map[string]interface{}{"chat_id": 222.0},
			},
			"last_update_id": 42.0,
		},
	}
}

type fixture struct {
	conf    *structures.Config
	src     *store.MemorySource
	dst     *store.MemoryDestination
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
}

func newFixture(tree map[string]interface{}) *fixture {
	return &fixture{
		conf:    testConfig(),
		src:     store.NewMemorySource(tree),
		dst:     store.NewMemoryDestination(),
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
	}
}

func (f *fixture) migrator() *CollectionMigrator {
	return NewCollectionMigrator(f.conf, f.src, f.dst, f.logger, f.metrics)
}

func (f *fixture) validator() *Validator {
	return NewValidator(f.conf, f.src, f.dst, f.logger, f.metrics)
}
