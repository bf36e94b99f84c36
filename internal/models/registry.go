package models

import (
	"sort"
	"time"
)

type ChatEntry struct {
	ChatID     int64
	Username   string
	FirstName  string
	LastActive time.Time
	AddedAt    time.Time
}

// Registry is the consolidated set of notification targets plus the polling cursor.
type Registry struct {
	Chats        map[string]ChatEntry
	LastUpdateID int64
}

func NewRegistry() Registry {
	return Registry{Chats: make(map[string]ChatEntry)}
}

// DecodeRegistry merges the source chat set and the cursor scalar.
func DecodeRegistry(chatsRaw, lastUpdateRaw interface{}) Registry {
	reg := NewRegistry()
	reg.LastUpdateID = asInt64(lastUpdateRaw)
	for key, raw := range AsMap(chatsRaw) {
		reg.Chats[key] = decodeChat(key, raw)
	}
	return reg
}

// RegistryFromDocument decodes the destination aggregate document.
func RegistryFromDocument(doc map[string]interface{}) Registry {
	return DecodeRegistry(doc["chats"], doc["last_update_id"])
}

func decodeChat(key string, raw interface{}) ChatEntry {
	node := AsMap(raw)
	entry := ChatEntry{
		ChatID:    asInt64(node["chat_id"]),
		Username:  asString(node["username"]),
		FirstName: asString(node["first_name"]),
	}
	if entry.ChatID == 0 {
		entry.ChatID = asInt64(key)
	}
	entry.LastActive, _ = asTime(node["last_active"])
	entry.AddedAt, _ = asTime(node["added_at"])
	return entry
}

// Targets returns the chat ids sorted ascending.
func (r Registry) Targets() []int64 {
	ids := make([]int64, 0, len(r.Chats))
	for _, c := range r.Chats {
		ids = append(ids, c.ChatID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c ChatEntry) Document() map[string]interface{} {
	doc := map[string]interface{}{
		"chat_id":    c.ChatID,
		"username":   c.Username,
		"first_name": c.FirstName,
	}
	if !c.LastActive.IsZero() {
		doc["last_active"] = c.LastActive
	}
	if !c.AddedAt.IsZero() {
		doc["added_at"] = c.AddedAt
	}
	return doc
}

func (r Registry) ChatsDocument() map[string]interface{} {
	chats := make(map[string]interface{}, len(r.Chats))
	for key, c := range r.Chats {
		chats[key] = c.Document()
	}
	return chats
}

func (r Registry) Document() map[string]interface{} {
	return map[string]interface{}{
		"chats":          r.ChatsDocument(),
		"last_update_id": r.LastUpdateID,
	}
}
