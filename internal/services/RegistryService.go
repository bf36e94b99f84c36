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
	"strconv"
	"time"

	"go.uber.org/atomic"
)

// ErrPollInProgress is returned by Poll while another poll holds the cursor.
var ErrPollInProgress = errors.New("telegram poll already in progress")

type RegistryServiceInterface interface {
	Load(ctx context.Context) (models.Registry, error)
	Poll(ctx context.Context) (PollResult, error)
	RemoveInactive(ctx context.Context, olderThan time.Duration) (int, error)
}

type PollResult struct {
	Processed  int   `json:"processed"`
	Registered int   `json:"registered"`
	Refreshed  int   `json:"refreshed"`
	Cursor     int64 `json:"cursor"`
}

// RegistryService keeps the set of notification targets in the registry
// document, discovering new private chats by polling the bot for updates.
type RegistryService struct {
	conf      *structures.Config
	dst       store.DestinationStore
	transport telegram.Transport
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time
	polling   atomic.Bool
}

func NewRegistryService(conf *structures.Config, dst store.DestinationStore, transport telegram.Transport, logger providers.Logger, metrics providers.MetricsProviderInterface) RegistryServiceInterface {
	return &RegistryService{
		conf:      conf,
		dst:       dst,
		transport: transport,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Load returns the registry, or an empty one if it was never written.
func (rs *RegistryService) Load(ctx context.Context) (models.Registry, error) {
	doc, err := rs.dst.GetDocument(ctx, rs.conf.Destination.RegistryDocument)
	if errors.Is(err, store.ErrNotFound) {
		return models.NewRegistry(), nil
	}
	if err != nil {
		return models.Registry{}, fmt.Errorf("load registry: %w", err)
	}
	return models.RegistryFromDocument(doc), nil
}

// Poll fetches updates past the stored cursor, registers or refreshes every
// private chat among them, then advances the cursor once for the whole batch.
// Only one poll runs at a time; a concurrent caller gets ErrPollInProgress.
func (rs *RegistryService) Poll(ctx context.Context) (PollResult, error) {
	if !rs.polling.CompareAndSwap(false, true) {
		return PollResult{}, ErrPollInProgress
	}
	defer rs.polling.Store(false)

	reg, err := rs.Load(ctx)
	if err != nil {
		return PollResult{}, err
	}
	res := PollResult{Cursor: reg.LastUpdateID}

	updates, err := rs.transport.FetchUpdates(ctx, reg.LastUpdateID, rs.conf.Alert.PollTimeout)
	if err != nil {
		return res, fmt.Errorf("fetch updates: %w", err)
	}
	if len(updates) == 0 {
		return res, nil
	}

	now := rs.now().UTC()
	ids := make([]int64, 0, len(updates))
	changed := make(map[string]interface{})
	for _, u := range updates {
		ids = append(ids, u.UpdateID)
		res.Processed++
		if !u.IsPrivate() {
			continue
		}

		key := strconv.FormatInt(u.ChatID, 10)
		entry, known := reg.Chats[key]
		if known {
			res.Refreshed++
		} else {
			entry = models.ChatEntry{ChatID: u.ChatID, AddedAt: now}
			res.Registered++
			rs.logger.Infof(providers.TypeTelegram, "New chat registered: %d (@%s)", u.ChatID, u.Username)
		}
		entry.LastActive = now
		if u.Username != "" {
			entry.Username = u.Username
		}
		if u.FirstName != "" {
			entry.FirstName = u.FirstName
		}
		reg.Chats[key] = entry
		changed[key] = entry.Document()
	}

	res.Cursor = telegram.NextCursor(reg.LastUpdateID, ids)
	patch := map[string]interface{}{"last_update_id": res.Cursor}
	if len(changed) > 0 {
		patch["chats"] = changed
	}
	if err := rs.dst.UpdateFields(ctx, rs.conf.Destination.RegistryDocument, patch); err != nil {
		return PollResult{Cursor: reg.LastUpdateID}, fmt.Errorf("save registry: %w", err)
	}

	rs.metrics.SetTargetsTotal(len(reg.Chats))
	rs.logger.Debugf(providers.TypeTelegram, "Processed %d updates, cursor %d", res.Processed, res.Cursor)
	return res, nil
}

// RemoveInactive drops chats not heard from within olderThan. Nothing
// schedules it; alerts go to every registered chat regardless of activity.
func (rs *RegistryService) RemoveInactive(ctx context.Context, olderThan time.Duration) (int, error) {
	reg, err := rs.Load(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := rs.now().Add(-olderThan)
	var stale []string
	for key, entry := range reg.Chats {
		seen := entry.LastActive
		if seen.IsZero() {
			seen = entry.AddedAt
		}
		if seen.Before(cutoff) {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	sort.Strings(stale)

	if err := rs.dst.DeleteMapKeys(ctx, rs.conf.Destination.RegistryDocument, "chats", stale); err != nil {
		return 0, fmt.Errorf("remove inactive chats: %w", err)
	}
	rs.metrics.SetTargetsTotal(len(reg.Chats) - len(stale))
	rs.logger.Infof(providers.TypeTelegram, "Removed %d inactive chats", len(stale))
	return len(stale), nil
}
