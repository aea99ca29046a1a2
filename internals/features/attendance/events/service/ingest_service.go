package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dailyService "schoolku_backend/internals/features/attendance/daily/service"
	deviceModel "schoolku_backend/internals/features/attendance/devices/model"
	employeeModel "schoolku_backend/internals/features/attendance/employees/model"
	"schoolku_backend/internals/features/attendance/events/dto"
	"schoolku_backend/internals/features/attendance/events/model"
	"schoolku_backend/internals/ws"
)

// IngestService adalah gateway ingestion: autentikasi push device, dedup,
// persist RawEvent, lalu lempar rekonsiliasi ke background. Response HTTP
// tidak pernah menunggu rekonsiliasi selesai.
type IngestService struct {
	DB         *gorm.DB
	Reconciler *dailyService.ReconcileService
	Hub        *ws.Hub // boleh nil (tanpa dashboard live)
}

func NewIngestService(db *gorm.DB, hub *ws.Hub) *IngestService {
	return &IngestService{
		DB:         db,
		Reconciler: dailyService.NewReconcileService(db),
		Hub:        hub,
	}
}

type IngestResult struct {
	EventID   uuid.UUID
	Duplicate bool
}

// IngestPunch menjalankan rantai validasi sesuai urutan kontrak:
// field → jenis event → device ada+aktif → token → IP allow-list → pegawai
// satu tenant. Error validasi tidak pernah membuat RawEvent.
func (s *IngestService) IngestPunch(req dto.PushEventRequest, callerIP string) (*IngestResult, error) {
	deviceID, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "device_id tidak valid")
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "employee_id tidak valid")
	}
	ts, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "timestamp harus ISO-8601")
	}

	dev, err := s.authDevice(deviceID, req.Token, callerIP)
	if err != nil {
		return nil, err
	}

	var emp employeeModel.EmployeeModel
	if err := s.DB.
		Where("employee_id = ? AND employee_school_id = ?", employeeID, dev.DeviceSchoolID).
		First(&emp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Pegawai tidak ditemukan di sekolah perangkat ini")
		}
		return nil, err
	}

	return s.IngestDevicePunch(dev, &emp, req.EventKind, ts)
}

// authDevice: device ada → aktif → token cocok → IP diizinkan.
func (s *IngestService) authDevice(deviceID uuid.UUID, token, callerIP string) (*deviceModel.DeviceModel, error) {
	var dev deviceModel.DeviceModel
	if err := s.DB.First(&dev, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Perangkat tidak ditemukan")
		}
		return nil, err
	}
	if !dev.DeviceActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Perangkat sudah dinonaktifkan")
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(dev.DeviceToken)) != 1 {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Token perangkat salah")
	}
	if !MatchAllowedIP(callerIP, dev.DeviceIPAllowlist) {
		return nil, fiber.NewError(fiber.StatusForbidden, "IP tidak ada di allow-list perangkat")
	}
	return &dev, nil
}

// IngestDevicePunch adalah jalur pasca-autentikasi, dipakai gateway push dan
// penarikan log historis dari terminal (keduanya lewat dedup yang sama).
func (s *IngestService) IngestDevicePunch(dev *deviceModel.DeviceModel, emp *employeeModel.EmployeeModel, kind string, ts time.Time) (*IngestResult, error) {
	// Dedup sinkron, sumber kebenarannya tabel RawEvent sendiri: tetap
	// benar walau proses restart, tanpa cache in-memory.
	var existing model.RawEventModel
	err := s.DB.
		Where("raw_event_device_id = ? AND raw_event_employee_id = ? AND raw_event_kind = ? AND raw_event_processed = false", dev.DeviceID, emp.EmployeeID, kind).
		Where("raw_event_device_timestamp BETWEEN ? AND ?", ts.Add(-DedupWindow), ts.Add(DedupWindow)).
		First(&existing).Error
	if err == nil && withinDedupWindow(existing.RawEventDeviceTimestamp, ts) {
		delta := ts.Sub(existing.RawEventDeviceTimestamp).Seconds()
		actor := "device"
		if aerr := s.DB.Create(&model.AuditEntryModel{
			AuditEntryRawEventID: &existing.RawEventID,
			AuditEntryAction:     model.AuditActionDuplicate,
			AuditEntryActor:      &actor,
			AuditEntryReason: fmt.Sprintf("punch duplikat diblokir: asli %s, percobaan %s, delta %.0f detik",
				existing.RawEventDeviceTimestamp.Format(time.RFC3339), ts.Format(time.RFC3339), delta),
		}).Error; aerr != nil {
			log.Printf("[ERROR] Gagal menulis audit duplikat: %v", aerr)
		}
		return &IngestResult{EventID: existing.RawEventID, Duplicate: true}, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ev := model.RawEventModel{
		RawEventDeviceID:        dev.DeviceID,
		RawEventEmployeeID:      emp.EmployeeID,
		RawEventKind:            kind,
		RawEventDeviceTimestamp: ts,
	}
	if err := s.DB.Create(&ev).Error; err != nil {
		return nil, err
	}

	s.touchDevice(dev.DeviceID, "online")

	if s.Hub != nil {
		s.Hub.BroadcastPunch(map[string]any{
			"event_id":      ev.RawEventID,
			"device_id":     dev.DeviceID,
			"device_name":   dev.DeviceName,
			"employee_id":   emp.EmployeeID,
			"employee_name": emp.EmployeeName,
			"event_kind":    kind,
			"timestamp":     ts.Format(time.RFC3339),
		})
	}

	// fire-and-forget: errornya dicatat di RawEvent oleh Reconcile sendiri
	go s.Reconciler.Reconcile(ev.RawEventID)

	return &IngestResult{EventID: ev.RawEventID}, nil
}

// SyncEmployees: daftar pegawai aktif satu sekolah untuk di-provision ke
// terminal, lewat autentikasi device yang sama dengan push event.
func (s *IngestService) SyncEmployees(req dto.SyncEmployeesRequest, callerIP string) ([]dto.EmployeeSyncResponse, error) {
	deviceID, err := uuid.Parse(req.DeviceID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "device_id tidak valid")
	}
	dev, err := s.authDevice(deviceID, req.Token, callerIP)
	if err != nil {
		return nil, err
	}

	var employees []employeeModel.EmployeeModel
	if err := s.DB.
		Where("employee_school_id = ? AND employee_active = true", dev.DeviceSchoolID).
		Order("employee_name ASC").
		Find(&employees).Error; err != nil {
		return nil, err
	}

	s.touchDevice(dev.DeviceID, "online")

	out := make([]dto.EmployeeSyncResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, dto.EmployeeSyncResponse{
			ID:                 e.EmployeeID.String(),
			Name:               e.EmployeeName,
			ExternalIdentifier: e.EmployeeExternalIdentifier,
		})
	}
	return out, nil
}

func (s *IngestService) touchDevice(deviceID uuid.UUID, status string) {
	if err := s.DB.Model(&deviceModel.DeviceModel{}).
		Where("device_id = ?", deviceID).
		Updates(map[string]any{
			"device_last_seen_at": time.Now(),
			"device_last_status":  status,
		}).Error; err != nil {
		log.Printf("[ERROR] Gagal update last-seen device %s: %v", deviceID, err)
	}
}
