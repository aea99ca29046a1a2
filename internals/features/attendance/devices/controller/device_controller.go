package controller

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/attendance/devices/dto"
	"schoolku_backend/internals/features/attendance/devices/model"
	"schoolku_backend/internals/features/attendance/devices/service"
	helper "schoolku_backend/internals/helpers"
	authSchool "schoolku_backend/internals/middlewares/auth_school"
	"schoolku_backend/internals/ws"
	"schoolku_backend/internals/zkproto"
)

var validate = validator.New()

type DeviceController struct {
	DB       *gorm.DB
	Terminal *service.TerminalService
}

func NewDeviceController(db *gorm.DB, hub *ws.Hub) *DeviceController {
	return &DeviceController{
		DB:       db,
		Terminal: service.NewTerminalService(db, hub),
	}
}

// 🟢 GET /api/a/attendance-devices (+ pagination)
func (ctrl *DeviceController) GetDevices(c *fiber.Ctx) error {
	schoolID := authSchool.SchoolIDFromLocals(c)
	if schoolID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusForbidden, "Scope sekolah tidak ditemukan di token")
	}

	// pagination
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	var total int64
	if err := ctrl.DB.Model(&model.DeviceModel{}).
		Where("device_school_id = ?", schoolID).
		Count(&total).Error; err != nil {
		log.Printf("[ERROR] Count devices: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghitung data")
	}

	var devices []model.DeviceModel
	if err := ctrl.DB.
		Where("device_school_id = ?", schoolID).
		Order("device_created_at DESC").
		Limit(limit).Offset(offset).
		Find(&devices).Error; err != nil {
		log.Printf("[ERROR] Gagal mengambil data device: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data")
	}

	pagination := fiber.Map{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": int((total + int64(limit) - 1) / int64(limit)),
		"has_next":    int64(page*limit) < total,
		"has_prev":    page > 1,
	}
	return helper.JsonList(c, "Daftar perangkat absensi", dto.ToDeviceResponseList(devices), pagination)
}

// 🟢 GET /api/a/attendance-devices/:id
func (ctrl *DeviceController) GetDevice(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Detail perangkat", dto.ToDeviceResponse(dev))
}

// 🟢 POST /api/a/attendance-devices: provisioning terminal baru.
// Token hanya dikembalikan sekali, di response provisioning ini.
func (ctrl *DeviceController) CreateDevice(c *fiber.Ctx) error {
	schoolID := authSchool.SchoolIDFromLocals(c)
	if schoolID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusForbidden, "Scope sekolah tidak ditemukan di token")
	}

	var req dto.ProvisionDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	token, err := generateToken()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat token perangkat")
	}

	newDev := req.ToModel(schoolID, token)
	if err := ctrl.DB.Create(newDev).Error; err != nil {
		log.Printf("[ERROR] Gagal menyimpan device: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan perangkat")
	}

	return helper.JsonCreated(c, "Perangkat berhasil diprovision", dto.ProvisionedDeviceResponse{
		DeviceResponse: *dto.ToDeviceResponse(newDev),
		DeviceToken:    token,
	})
}

// 🟢 PUT /api/a/attendance-devices/:id
func (ctrl *DeviceController) UpdateDevice(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.UpdateDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if req.DeviceName != nil {
		dev.DeviceName = *req.DeviceName
	}
	if req.DeviceHost != nil {
		dev.DeviceHost = *req.DeviceHost
	}
	if req.DevicePort != nil {
		dev.DevicePort = *req.DevicePort
	}
	if req.DeviceIPAllowlist != nil {
		dev.DeviceIPAllowlist = *req.DeviceIPAllowlist
	}

	if err := ctrl.DB.Save(dev).Error; err != nil {
		log.Printf("[ERROR] Gagal update device: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui perangkat")
	}
	return helper.JsonUpdated(c, "Perangkat berhasil diperbarui", dto.ToDeviceResponse(dev))
}

// 🛑 DELETE /api/a/attendance-devices/:id: selalu soft delete:
// device tidak pernah dihapus permanen, hanya dinonaktifkan.
func (ctrl *DeviceController) DeactivateDevice(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.Model(dev).
		Update("device_active", false).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menonaktifkan perangkat")
	}
	return helper.JsonOK(c, "Perangkat berhasil dinonaktifkan", nil)
}

// 🟢 POST /api/a/attendance-devices/:id/test-connection
func (ctrl *DeviceController) TestConnection(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	info, err := ctrl.Terminal.TestConnection(dev)
	if err != nil {
		return transportError(c, err)
	}
	return helper.JsonOK(c, "Terminal merespons", info)
}

// 🟢 POST /api/a/attendance-devices/:id/sync-users
func (ctrl *DeviceController) SyncUsers(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sent, err := ctrl.Terminal.SyncUsersToTerminal(dev)
	if err != nil {
		return transportError(c, err)
	}
	return helper.JsonOK(c, "Pegawai berhasil didorong ke terminal", fiber.Map{"sent": sent})
}

// 🟢 POST /api/a/attendance-devices/:id/pull-logs
func (ctrl *DeviceController) PullLogs(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.PullLogsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Permintaan tidak valid")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	start, _ := time.ParseInLocation("2006-01-02", req.Start, time.Local)
	end, _ := time.ParseInLocation("2006-01-02", req.End, time.Local)
	end = end.Add(24*time.Hour - time.Second) // inklusif sampai akhir hari

	result, err := ctrl.Terminal.PullLogs(dev, start, end)
	if err != nil {
		return transportError(c, err)
	}
	return helper.JsonOK(c, "Log terminal berhasil ditarik", result)
}

// 🟢 POST /api/a/attendance-devices/:id/clear-logs
func (ctrl *DeviceController) ClearLogs(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.Terminal.ClearLogs(dev); err != nil {
		return transportError(c, err)
	}
	return helper.JsonOK(c, "Log terminal berhasil dihapus", nil)
}

// 🟢 POST /api/a/attendance-devices/:id/set-time
func (ctrl *DeviceController) SetTime(c *fiber.Ctx) error {
	dev, err := ctrl.scopedDevice(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.Terminal.SetTime(dev); err != nil {
		return transportError(c, err)
	}
	return helper.JsonOK(c, "Jam terminal berhasil disinkronkan", nil)
}

// scopedDevice mengambil device dari param :id dengan otorisasi tenant.
func (ctrl *DeviceController) scopedDevice(c *fiber.Ctx) (*model.DeviceModel, error) {
	schoolID := authSchool.SchoolIDFromLocals(c)
	if schoolID == uuid.Nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Scope sekolah tidak ditemukan di token")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Format ID tidak valid")
	}

	var dev model.DeviceModel
	if err := ctrl.DB.
		Where("device_id = ? AND device_school_id = ?", id, schoolID).
		First(&dev).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Perangkat tidak ditemukan")
	}
	return &dev, nil
}

// transportError meneruskan error Connection/Timeout apa adanya ke admin -
// retry dengan backoff adalah urusan pemanggil.
func transportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, zkproto.ErrTimeout):
		return helper.JsonError(c, fiber.StatusGatewayTimeout, err.Error())
	case errors.Is(err, zkproto.ErrConnection), errors.Is(err, zkproto.ErrNotConnected):
		return helper.JsonError(c, fiber.StatusBadGateway, err.Error())
	default:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
}

func generateToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
