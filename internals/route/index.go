// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	deviceRoute "schoolku_backend/internals/features/attendance/devices/route"
	eventRoute "schoolku_backend/internals/features/attendance/events/route"
	authSchool "schoolku_backend/internals/middlewares/auth_school"
	"schoolku_backend/internals/ws"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, hub *ws.Hub) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== DEVICE GATEWAY =====================
	// dipanggil terminal/integrasi: autentikasi token per-device, bukan JWT
	log.Println("[INFO] Mounting device gateway routes...")
	eventRoute.DeviceGatewayRoutes(app, db, hub)

	// ===================== LIVE MONITOR (WS) =====================
	log.Println("[INFO] Mounting websocket monitor...")
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/monitor", websocket.New(func(conn *websocket.Conn) {
		client := ws.NewClient(hub, conn)
		hub.Register(client)
		go client.WritePump()
		client.ReadPump()
	}))

	// ===================== ADMIN (per school) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authSchool.AuthJWT(authSchool.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authSchool.IsSchoolAdmin(),
	)

	log.Println("[INFO] Mounting attendance device admin routes...")
	deviceRoute.AttendanceDeviceAdminRoutes(admin, db, hub)
}
