package services

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/providers"
	"energymon/internal/store"
	"energymon/internal/structures"
	"energymon/internal/telegram"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

type AlertServiceInterface interface {
	Evaluate(ctx context.Context) (models.AlertSummary, error)
	LastSummary() (models.AlertSummary, bool)
}

// AlertService checks every device's latest daily reading against its energy
// limit and broadcasts an alert to all registered chats for each device over
// it. Nothing is deduplicated: a device that stays over its limit is
// reported again on every evaluation.
type AlertService struct {
	conf      *structures.Config
	dst       store.DestinationStore
	registry  RegistryServiceInterface
	transport telegram.Transport
	cache     providers.CacheProviderInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time

	mu   sync.Mutex
	last *models.AlertSummary
}

func NewAlertService(conf *structures.Config, dst store.DestinationStore, registry RegistryServiceInterface, transport telegram.Transport, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) AlertServiceInterface {
	return &AlertService{
		conf:      conf,
		dst:       dst,
		registry:  registry,
		transport: transport,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (as *AlertService) Evaluate(ctx context.Context) (models.AlertSummary, error) {
	start := time.Now()
	summary := models.AlertSummary{EvaluatedAt: as.now().UTC()}

	reg, err := as.registry.Load(ctx)
	if err != nil {
		return summary, err
	}
	targets := reg.Targets()
	summary.ActiveTargets = len(targets)
	as.metrics.SetTargetsTotal(len(targets))

	docs, err := as.dst.ListDocuments(ctx, as.conf.Destination.DevicesCollection)
	if err != nil {
		return summary, fmt.Errorf("list devices: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	formatting := telegram.ParseFormatting(as.conf.Telegram.ParseMode)
	for _, id := range ids {
		device := models.DecodeDevice(id, docs[id], summary.EvaluatedAt)
		summary.DevicesChecked++
		if !device.HasLimit() {
			continue
		}

		reading, ok, err := as.latestReading(ctx, id)
		if err != nil {
			as.logger.Warnf(providers.TypeAlert, "Latest reading for %s unavailable: %s", id, err)
			continue
		}
		if !ok || reading.Energy <= device.EnergyLimit {
			continue
		}

		summary.DevicesOverLimit++
		name := as.displayName(ctx, device)
		as.logger.Infof(providers.TypeAlert, "Device %s (%s) over limit: %.2f > %.2f", id, name, reading.Energy, device.EnergyLimit)

		text := telegram.FormatAlert(formatting, name, reading.Energy, device.EnergyLimit, summary.EvaluatedAt)
		for _, chatID := range targets {
			if as.send(ctx, chatID, text, formatting) {
				summary.AlertsSent++
			} else {
				summary.SendFailures++
			}
		}
	}

	as.metrics.SetDevicesOverLimit(summary.DevicesOverLimit)
	as.metrics.ObserveEvaluationDuration(time.Since(start))
	as.logger.Infof(providers.TypeAlert, "Checked %d devices: %d over limit, %d alerts sent, %d failed, %d targets",
		summary.DevicesChecked, summary.DevicesOverLimit, summary.AlertsSent, summary.SendFailures, summary.ActiveTargets)

	as.mu.Lock()
	as.last = &summary
	as.mu.Unlock()
	return summary, nil
}

func (as *AlertService) LastSummary() (models.AlertSummary, bool) {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.last == nil {
		return models.AlertSummary{}, false
	}
	return *as.last, true
}

func (as *AlertService) send(ctx context.Context, chatID int64, text string, formatting telegram.Formatting) bool {
	ok, err := as.transport.Send(ctx, chatID, text, formatting)
	if err == nil && ok {
		as.metrics.IncAlertsSent()
		return true
	}
	if err == nil {
		err = errors.New("not accepted")
	}
	as.metrics.IncAlertFailures()
	as.logger.Errorf(providers.TypeAlert, "Alert to chat %d failed: %s", chatID, err)
	return false
}

func (as *AlertService) latestReading(ctx context.Context, deviceID string) (models.Reading, bool, error) {
	collection := store.Join(as.conf.Destination.DevicesCollection, deviceID, as.conf.Destination.ReadingsCollection)
	keys, err := as.dst.ListDocumentIDs(ctx, collection)
	if err != nil {
		return models.Reading{}, false, err
	}
	key, ok := models.LatestKey(keys)
	if !ok {
		return models.Reading{}, false, nil
	}
	doc, err := as.dst.GetDocument(ctx, store.Join(collection, key))
	if errors.Is(err, store.ErrNotFound) {
		return models.Reading{}, false, nil
	}
	if err != nil {
		return models.Reading{}, false, err
	}
	reading, ok := models.DecodeReading(key, doc)
	return reading, ok, nil
}

// displayName prefers the first associated user's name for the device and
// falls back to the device's own name, then its id.
func (as *AlertService) displayName(ctx context.Context, device models.Device) string {
	if len(device.UserIDs) > 0 {
		names, err := as.userDeviceNames(ctx, device.UserIDs[0])
		if err != nil {
			as.logger.Debugf(providers.TypeAlert, "No user names for %s: %s", device.ID, err)
		} else if name := names[device.ID]; name != "" {
			return name
		}
	}
	if device.Name != "" {
		return device.Name
	}
	return device.ID
}

func (as *AlertService) userDeviceNames(ctx context.Context, userID string) (map[string]string, error) {
	cacheKey := "user-devices:" + userID
	if data, ok := as.cache.Get(cacheKey); ok {
		var names map[string]string
		if err := json.Unmarshal(data, &names); err == nil {
			return names, nil
		}
		as.cache.Del(cacheKey)
	}

	doc, err := as.dst.GetDocument(ctx, store.Join(as.conf.Destination.UsersCollection, userID))
	if err != nil {
		return nil, err
	}
	names := models.DecodeUser(userID, doc).Devices
	if data, err := json.Marshal(names); err == nil {
		as.cache.Set(cacheKey, data)
	}
	return names, nil
}
