package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/attendance/events/controller"
	"schoolku_backend/internals/middlewares"
	"schoolku_backend/internals/ws"
)

// DeviceGatewayRoutes memasang endpoint yang dipanggil terminal/integrasi.
// Autentikasinya token per-device di body, bukan JWT.
func DeviceGatewayRoutes(app *fiber.App, db *gorm.DB, hub *ws.Hub) {
	eventCtrl := controller.NewEventController(db, hub)

	gateway := app.Group("/", middlewares.DevicePushRateLimiter())
	gateway.Post("/events", eventCtrl.PostEvent)
	gateway.Post("/sync-employees", eventCtrl.SyncEmployees)
}
