package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/attendance/daily/model"
	eventModel "schoolku_backend/internals/features/attendance/events/model"
)

const manualRecordError = "manual record exists"

// ReconcileService mengubah RawEvent menjadi agregat DailyAttendance.
// Dipanggil dari goroutine gateway: error tidak pernah sampai ke device,
// tapi ditulis ke RawEvent supaya sweep retry eksternal bisa mengulang.
type ReconcileService struct {
	DB                   *gorm.DB
	StandardEntryMinutes int
}

func NewReconcileService(db *gorm.DB) *ReconcileService {
	return &ReconcileService{
		DB:                   db,
		StandardEntryMinutes: configs.StandardEntryMinutes,
	}
}

// Reconcile memproses satu RawEvent dan menelan errornya ke kolom
// raw_event_last_error. Aman dipanggil ulang untuk event yang sama.
func (s *ReconcileService) Reconcile(rawEventID uuid.UUID) {
	if err := s.ProcessRawEvent(rawEventID); err != nil {
		log.Printf("[ERROR] Rekonsiliasi event %s gagal: %v", rawEventID, err)
		msg := err.Error()
		if uerr := s.DB.Model(&eventModel.RawEventModel{}).
			Where("raw_event_id = ?", rawEventID).
			Updates(map[string]any{
				"raw_event_processed":  false,
				"raw_event_last_error": msg,
			}).Error; uerr != nil {
			log.Printf("[ERROR] Gagal menyimpan error rekonsiliasi event %s: %v", rawEventID, uerr)
		}
	}
}

// ProcessRawEvent menjalankan transisi dalam satu transaksi dengan row lock
// pada agregat (employee, date): dua punch nyaris bersamaan untuk pegawai
// yang sama diserialisasi di sini, bukan di memori proses.
func (s *ReconcileService) ProcessRawEvent(rawEventID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var ev eventModel.RawEventModel
		if err := tx.First(&ev, "raw_event_id = ?", rawEventID).Error; err != nil {
			return fmt.Errorf("ambil raw event: %w", err)
		}
		if ev.RawEventProcessed {
			// sudah pernah sukses: re-run adalah no-op
			return nil
		}

		// Take, bukan Scan: device yang hilang harus menggagalkan transaksi,
		// bukan diam-diam membuat agregat dengan school id kosong
		var dev struct {
			DeviceSchoolID uuid.UUID
		}
		if err := tx.Table("attendance_devices").
			Select("device_school_id").
			Where("device_id = ?", ev.RawEventDeviceID).
			Take(&dev).Error; err != nil {
			return fmt.Errorf("ambil device %s: %w", ev.RawEventDeviceID, err)
		}

		day := truncateToDate(ev.RawEventDeviceTimestamp)

		var att model.DailyAttendanceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("daily_attendance_employee_id = ? AND daily_attendance_date = ?", ev.RawEventEmployeeID, day).
			First(&att).Error
		notFound := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !notFound {
			return fmt.Errorf("ambil agregat: %w", err)
		}

		// Proteksi record manual: event biometrik tidak boleh menimpa input
		// manusia. Event ditolak, agregat tidak disentuh.
		if !notFound && att.DailyAttendanceOrigin == model.OriginManual {
			if err := tx.Model(&eventModel.RawEventModel{}).
				Where("raw_event_id = ?", ev.RawEventID).
				Updates(map[string]any{
					"raw_event_processed":  false,
					"raw_event_last_error": manualRecordError,
				}).Error; err != nil {
				return err
			}
			actor := "device"
			return tx.Create(&eventModel.AuditEntryModel{
				AuditEntryRawEventID:        &ev.RawEventID,
				AuditEntryDailyAttendanceID: &att.DailyAttendanceID,
				AuditEntryAction:            eventModel.AuditActionRejected,
				AuditEntryActor:             &actor,
				AuditEntryReason: fmt.Sprintf("event %s %s ditolak: %s",
					ev.RawEventKind, ev.RawEventDeviceTimestamp.Format("2006-01-02 15:04"), manualRecordError),
			}).Error
		}

		before := "none"
		if notFound {
			att = model.DailyAttendanceModel{
				DailyAttendanceEmployeeID: ev.RawEventEmployeeID,
				DailyAttendanceSchoolID:   dev.DeviceSchoolID,
				DailyAttendanceDate:       day,
				DailyAttendanceOrigin:     model.OriginBiometric,
			}
		} else {
			before = Snapshot(&att)
		}

		ApplyPunch(&att, ev.RawEventKind, ev.RawEventDeviceTimestamp, s.StandardEntryMinutes)

		if notFound {
			if err := tx.Create(&att).Error; err != nil {
				return fmt.Errorf("buat agregat: %w", err)
			}
		} else if err := tx.Save(&att).Error; err != nil {
			return fmt.Errorf("simpan agregat: %w", err)
		}

		if err := tx.Model(&eventModel.RawEventModel{}).
			Where("raw_event_id = ?", ev.RawEventID).
			Updates(map[string]any{
				"raw_event_processed":  true,
				"raw_event_last_error": nil,
			}).Error; err != nil {
			return err
		}

		actor := "device"
		return tx.Create(&eventModel.AuditEntryModel{
			AuditEntryRawEventID:        &ev.RawEventID,
			AuditEntryDailyAttendanceID: &att.DailyAttendanceID,
			AuditEntryAction:            eventModel.AuditActionAccepted,
			AuditEntryActor:             &actor,
			AuditEntryReason: fmt.Sprintf("event %s %s diterapkan: %s → %s",
				ev.RawEventKind, ev.RawEventDeviceTimestamp.Format("2006-01-02 15:04"), before, Snapshot(&att)),
		}).Error
	})
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
