package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/attendance/devices/controller"
	"schoolku_backend/internals/ws"
)

// AttendanceDeviceAdminRoutes memasang operasi administratif perangkat
// absensi. Pemanggil sudah lolos AuthJWT + IsSchoolAdmin di group /api/a.
func AttendanceDeviceAdminRoutes(admin fiber.Router, db *gorm.DB, hub *ws.Hub) {
	deviceCtrl := controller.NewDeviceController(db, hub)

	devices := admin.Group("/attendance-devices")
	devices.Get("/", deviceCtrl.GetDevices)
	devices.Post("/", deviceCtrl.CreateDevice)
	devices.Get("/:id", deviceCtrl.GetDevice)
	devices.Put("/:id", deviceCtrl.UpdateDevice)
	devices.Delete("/:id", deviceCtrl.DeactivateDevice)

	// operasi langsung ke terminal fisik (facade zkproto)
	devices.Post("/:id/test-connection", deviceCtrl.TestConnection)
	devices.Post("/:id/sync-users", deviceCtrl.SyncUsers)
	devices.Post("/:id/pull-logs", deviceCtrl.PullLogs)
	devices.Post("/:id/clear-logs", deviceCtrl.ClearLogs)
	devices.Post("/:id/set-time", deviceCtrl.SetTime)
}
