package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent    = "PRESENT"
	StatusLate       = "LATE"
	StatusIncomplete = "INCOMPLETE"
)

const (
	OriginManual    = "MANUAL"
	OriginBiometric = "BIOMETRIC"
)

// DailyAttendanceModel adalah agregat kehadiran final, satu baris per
// (pegawai, tanggal). Unique index-nya sekaligus batas serialisasi
// rekonsiliasi. Begitu origin=MANUAL, event biometrik tidak boleh
// menimpanya.
type DailyAttendanceModel struct {
	DailyAttendanceID          uuid.UUID  `gorm:"column:daily_attendance_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"daily_attendance_id"`
	DailyAttendanceEmployeeID  uuid.UUID  `gorm:"column:daily_attendance_employee_id;type:uuid;not null;uniqueIndex:idx_daily_attendance_employee_date" json:"daily_attendance_employee_id"`
	DailyAttendanceSchoolID    uuid.UUID  `gorm:"column:daily_attendance_school_id;type:uuid;not null;index" json:"daily_attendance_school_id"`
	DailyAttendanceDate        time.Time  `gorm:"column:daily_attendance_date;type:date;not null;uniqueIndex:idx_daily_attendance_employee_date" json:"daily_attendance_date"`
	DailyAttendanceEntryTime   *time.Time `gorm:"column:daily_attendance_entry_time" json:"daily_attendance_entry_time"` // nullable
	DailyAttendanceExitTime    *time.Time `gorm:"column:daily_attendance_exit_time" json:"daily_attendance_exit_time"`   // nullable
	DailyAttendanceStatus      string     `gorm:"column:daily_attendance_status;type:varchar(12);not null" json:"daily_attendance_status"`
	DailyAttendanceHoursWorked float64    `gorm:"column:daily_attendance_hours_worked;not null;default:0" json:"daily_attendance_hours_worked"`
	DailyAttendanceOrigin      string     `gorm:"column:daily_attendance_origin;type:varchar(10);not null" json:"daily_attendance_origin"`
	DailyAttendanceCreatedAt   time.Time  `gorm:"column:daily_attendance_created_at;autoCreateTime" json:"daily_attendance_created_at"`
	DailyAttendanceUpdatedAt   time.Time  `gorm:"column:daily_attendance_updated_at;autoUpdateTime" json:"daily_attendance_updated_at"`
}

func (DailyAttendanceModel) TableName() string {
	return "daily_attendances"
}
