package services

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/store"
	"energymon/internal/structures"
	"energymon/internal/testutil"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)

func testConfig() *structures.Config {
	return &structures.Config{
		Destination: structures.DestinationConfig{
			UsersCollection:    "users",
			DevicesCollection:  "devices",
			ReadingsCollection: "daily_readings",
			RegistryDocument:   "telegram/registry",
		},
		Telegram: structures.TelegramConfig{ParseMode: "plain"},
	}
}

func putDevice(t *testing.T, dst *store.MemoryDestination, id string, d models.Device) {
	t.Helper()
	d.ID = id
	require.NoError(t, dst.SetDocument(context.Background(), store.Join("devices", id), d.Document()))
}

func putReading(t *testing.T, dst *store.MemoryDestination, deviceID string, ts int64, energy float64) {
	t.Helper()
	r := models.Reading{Timestamp: ts, Energy: energy}
	path := store.Join("devices", deviceID, "daily_readings", strconv.FormatInt(ts, 10))
	require.NoError(t, dst.SetDocument(context.Background(), path, r.Document()))
}

func putRegistry(t *testing.T, dst *store.MemoryDestination, chatIDs ...int64) {
	t.Helper()
	reg := models.NewRegistry()
	for _, id := range chatIDs {
		reg.Chats[strconv.FormatInt(id, 10)] = models.ChatEntry{ChatID: id, AddedAt: fixedNow.Add(-time.Hour)}
	}
	require.NoError(t, dst.SetDocument(context.Background(), "telegram/registry", reg.Document()))
}

type alertFixture struct {
	dst       *store.MemoryDestination
	transport *testutil.MockTransport
	cache     *testutil.MockCache
	logger    *testutil.MockLogger
	metrics   *testutil.MockMetrics
	service   *AlertService
}

func newAlertFixture() *alertFixture {
	f := &alertFixture{
		dst:       store.NewMemoryDestination(),
		transport: &testutil.MockTransport{},
		cache:     testutil.NewMockCache(),
		logger:    &testutil.MockLogger{},
		metrics:   &testutil.MockMetrics{},
	}
	conf := testConfig()
	registry := NewRegistryService(conf, f.dst, f.transport, f.logger, f.metrics)
	f.service = NewAlertService(conf, f.dst, registry, f.transport, f.cache, f.logger, f.metrics).(*AlertService)
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func newRegistryService(dst store.DestinationStore, transport *testutil.MockTransport) (*RegistryService, *testutil.MockLogger) {
	logger := &testutil.MockLogger{}
	rs := NewRegistryService(testConfig(), dst, transport, logger, &testutil.MockMetrics{}).(*RegistryService)
	rs.now = func() time.Time { return fixedNow }
	return rs, logger
}
