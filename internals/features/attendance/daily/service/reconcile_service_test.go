package service

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
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

func TestProcessRawEventMissingDeviceFailsTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	eventID := uuid.New()
	deviceID := uuid.New()
	employeeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "attendance_raw_events"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"raw_event_id", "raw_event_device_id", "raw_event_employee_id",
			"raw_event_kind", "raw_event_device_timestamp", "raw_event_processed",
		}).AddRow(eventID.String(), deviceID.String(), employeeID.String(),
			"ENTRADA", time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC), false))
	// device-nya sudah tidak ada: nol baris, transaksi harus gagal, bukan
	// lanjut membuat agregat dengan school id kosong
	mock.ExpectQuery(`SELECT "device_school_id" FROM "attendance_devices"`).
		WillReturnRows(sqlmock.NewRows([]string{"device_school_id"}))
	mock.ExpectRollback()

	svc := &ReconcileService{DB: db, StandardEntryMinutes: 8 * 60}
	err := svc.ProcessRawEvent(eventID)
	if err == nil {
		t.Fatal("device hilang harus menggagalkan transaksi")
	}
	if !strings.Contains(err.Error(), "ambil device") {
		t.Errorf("error: %v", err)
	}
	if merr := mock.ExpectationsWereMet(); merr != nil {
		t.Errorf("ekspektasi query: %v", merr)
	}
}
