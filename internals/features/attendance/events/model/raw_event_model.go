package model

import (
	"time"

	"github.com/google/uuid"
)

// Jenis event punch yang dikirim terminal.
const (
	EventKindEntrada = "ENTRADA"
	EventKindSaida   = "SAIDA"
)

// RawEventModel adalah satu punch fisik apa adanya dari terminal. Payload
// bisnisnya immutable; hanya metadata pemrosesan (processed, last_error)
// yang boleh diubah oleh rekonsiliasi.
type RawEventModel struct {
	RawEventID              uuid.UUID `gorm:"column:raw_event_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"raw_event_id"`
	RawEventDeviceID        uuid.UUID `gorm:"column:raw_event_device_id;type:uuid;not null;index" json:"raw_event_device_id"`
	RawEventEmployeeID      uuid.UUID `gorm:"column:raw_event_employee_id;type:uuid;not null;index" json:"raw_event_employee_id"`
	RawEventKind            string    `gorm:"column:raw_event_kind;type:varchar(10);not null" json:"raw_event_kind"`
	RawEventDeviceTimestamp time.Time `gorm:"column:raw_event_device_timestamp;not null;index" json:"raw_event_device_timestamp"`
	RawEventReceivedAt      time.Time `gorm:"column:raw_event_received_at;autoCreateTime" json:"raw_event_received_at"`
	RawEventProcessed       bool      `gorm:"column:raw_event_processed;not null;default:false" json:"raw_event_processed"`
	RawEventLastError       *string   `gorm:"column:raw_event_last_error;type:text" json:"raw_event_last_error"` // nullable
}

func (RawEventModel) TableName() string {
	return "attendance_raw_events"
}
