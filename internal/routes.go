package internal

import (
	"energymon/internal/controllers"
	"energymon/internal/providers"
	"net/http"
)

func InitRoutes(alertController *controllers.AlertController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/alerts/check", http.HandlerFunc(alertController.Check))
	routers.Post("/telegram/poll", http.HandlerFunc(alertController.Poll))
	routers.Get("/telegram/chats", http.HandlerFunc(alertController.Chats))
	return routers
}
