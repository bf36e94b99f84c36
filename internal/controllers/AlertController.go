package controllers

import (
	"energymon/internal/models"
	"energymon/internal/providers"
	"energymon/internal/services"
	"errors"
	"net/http"
	"sort"
	"time"
)

// AlertController exposes the periodic jobs so an external scheduler can
// trigger them, plus a read-only view of the registered chats.
type AlertController struct {
	logger   providers.Logger
	alerts   services.AlertServiceInterface
	registry services.RegistryServiceInterface
}

func NewAlertController(logger providers.Logger, alerts services.AlertServiceInterface, registry services.RegistryServiceInterface) *AlertController {
	return &AlertController{
		logger:   logger,
		alerts:   alerts,
		registry: registry,
	}
}

func (ac *AlertController) Check(w http.ResponseWriter, r *http.Request) {
	summary, err := ac.alerts.Evaluate(r.Context())
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Alert check failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (ac *AlertController) Poll(w http.ResponseWriter, r *http.Request) {
	res, err := ac.registry.Poll(r.Context())
	if errors.Is(err, services.ErrPollInProgress) {
		http.Error(w, "Conflict", http.StatusConflict)
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Telegram poll failed: %s", err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type chatResponse struct {
	ChatID     int64     `json:"chat_id"`
	Username   string    `json:"username,omitempty"`
	FirstName  string    `json:"first_name,omitempty"`
	LastActive time.Time `json:"last_active,omitempty"`
	AddedAt    time.Time `json:"added_at,omitempty"`
}

type chatsResponse struct {
	Chats        []chatResponse `json:"chats"`
	LastUpdateID int64          `json:"last_update_id"`
}

func (ac *AlertController) Chats(w http.ResponseWriter, r *http.Request) {
	reg, err := ac.registry.Load(r.Context())
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Loading registry failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toChatsResponse(reg))
}

func toChatsResponse(reg models.Registry) chatsResponse {
	resp := chatsResponse{Chats: make([]chatResponse, 0, len(reg.Chats)), LastUpdateID: reg.LastUpdateID}
	for _, c := range reg.Chats {
		resp.Chats = append(resp.Chats, chatResponse{
			ChatID:     c.ChatID,
			Username:   c.Username,
			FirstName:  c.FirstName,
			LastActive: c.LastActive,
			AddedAt:    c.AddedAt,
		})
	}
	sort.Slice(resp.Chats, func(i, j int) bool { return resp.Chats[i].ChatID < resp.Chats[j].ChatID })
	return resp
}
