package service

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	deviceModel "schoolku_backend/internals/features/attendance/devices/model"
	employeeModel "schoolku_backend/internals/features/attendance/employees/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func TestIngestDevicePunchDuplicateCreatesNoNewEvent(t *testing.T) {
	db, mock := newMockDB(t)

	deviceID := uuid.New()
	employeeID := uuid.New()
	existingID := uuid.New()
	ts := time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC)

	// kandidat dedup: punch identik 30 detik sebelumnya, belum diproses
	mock.ExpectQuery(`SELECT .* FROM "attendance_raw_events"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"raw_event_id", "raw_event_device_id", "raw_event_employee_id",
			"raw_event_kind", "raw_event_device_timestamp", "raw_event_processed",
		}).AddRow(existingID.String(), deviceID.String(), employeeID.String(),
			"ENTRADA", ts.Add(-30*time.Second), false))
	// satu-satunya tulisan adalah audit DUPLICATE: INSERT raw event baru
	// tidak boleh ada (mock error kalau ada query tak terduga)
	mock.ExpectQuery(`INSERT INTO "attendance_audit_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"audit_entry_id"}).
			AddRow(uuid.New().String()))

	svc := &IngestService{DB: db}
	dev := &deviceModel.DeviceModel{DeviceID: deviceID, DeviceName: "Gerbang Utama"}
	emp := &employeeModel.EmployeeModel{EmployeeID: employeeID, EmployeeName: "Budi Santoso"}

	res, err := svc.IngestDevicePunch(dev, emp, "ENTRADA", ts)
	if err != nil {
		t.Fatalf("IngestDevicePunch: %v", err)
	}
	if !res.Duplicate {
		t.Error("punch dalam window harus terdeteksi duplikat")
	}
	if res.EventID != existingID {
		t.Errorf("event id: got %s want %s (id asli)", res.EventID, existingID)
	}
	if merr := mock.ExpectationsWereMet(); merr != nil {
		t.Errorf("ekspektasi query: %v", merr)
	}
}
