package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/attendance/events/dto"
	"schoolku_backend/internals/features/attendance/events/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/ws"
)

var validate = validator.New()

type EventController struct {
	Service *service.IngestService
}

func NewEventController(db *gorm.DB, hub *ws.Hub) *EventController {
	return &EventController{Service: service.NewIngestService(db, hub)}
}

// 🟢 POST /events: push punch dari terminal/integrasi.
// Response dikirim begitu RawEvent tersimpan; rekonsiliasi jalan di belakang.
func (ctrl *EventController) PostEvent(c *fiber.Ctx) error {
	var req dto.PushEventRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[ERROR] Gagal parsing body event: %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	result, err := ctrl.Service.IngestPunch(req, c.IP())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if result.Duplicate {
		// duplikat bukan error: idempoten, device tidak perlu kirim ulang
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":   true,
			"duplicate": true,
			"event_id":  result.EventID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"event_id": result.EventID,
	})
}

// 🟢 POST /sync-employees: daftar pegawai aktif untuk provisioning terminal.
func (ctrl *EventController) SyncEmployees(c *fiber.Ctx) error {
	var req dto.SyncEmployeesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	employees, err := ctrl.Service.SyncEmployees(req, c.IP())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Daftar pegawai aktif", employees)
}
