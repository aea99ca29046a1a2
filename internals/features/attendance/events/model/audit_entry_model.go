package model

import (
	"time"

	"github.com/google/uuid"
)

// Keputusan yang dicatat di audit trail.
const (
	AuditActionAccepted  = "ACCEPTED"
	AuditActionRejected  = "REJECTED"
	AuditActionDuplicate = "DUPLICATE"
)

// AuditEntryModel append-only: satu baris per keputusan accept/reject/
// duplicate, tidak pernah di-update atau dihapus.
type AuditEntryModel struct {
	AuditEntryID                uuid.UUID  `gorm:"column:audit_entry_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"audit_entry_id"`
	AuditEntryRawEventID        *uuid.UUID `gorm:"column:audit_entry_raw_event_id;type:uuid;index" json:"audit_entry_raw_event_id"`
	AuditEntryDailyAttendanceID *uuid.UUID `gorm:"column:audit_entry_daily_attendance_id;type:uuid;index" json:"audit_entry_daily_attendance_id"`
	AuditEntryAction            string     `gorm:"column:audit_entry_action;type:varchar(12);not null" json:"audit_entry_action"`
	AuditEntryActor             *string    `gorm:"column:audit_entry_actor;type:varchar(32)" json:"audit_entry_actor"` // "device" atau null
	AuditEntryReason            string     `gorm:"column:audit_entry_reason;type:text;not null" json:"audit_entry_reason"`
	AuditEntryCreatedAt         time.Time  `gorm:"column:audit_entry_created_at;autoCreateTime" json:"audit_entry_created_at"`
}

func (AuditEntryModel) TableName() string {
	return "attendance_audit_entries"
}
