package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// DeviceModel adalah terminal biometrik yang terdaftar di satu sekolah.
// Deaktivasi selalu soft (device_active=false), tidak pernah hard delete.
type DeviceModel struct {
	DeviceID          uuid.UUID      `gorm:"column:device_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"device_id"`
	DeviceSchoolID    uuid.UUID      `gorm:"column:device_school_id;type:uuid;not null;index" json:"device_school_id"`
	DeviceName        string         `gorm:"column:device_name;type:varchar(100);not null" json:"device_name"`
	DeviceHost        string         `gorm:"column:device_host;type:varchar(64);not null" json:"device_host"`
	DevicePort        int            `gorm:"column:device_port;not null;default:4370" json:"device_port"`
	DeviceToken       string         `gorm:"column:device_token;type:varchar(64);not null" json:"-"`
	DeviceIPAllowlist pq.StringArray `gorm:"column:device_ip_allowlist;type:text[]" json:"device_ip_allowlist"`
	DeviceActive      bool           `gorm:"column:device_active;not null;default:true" json:"device_active"`
	DeviceLastSeenAt  *time.Time     `gorm:"column:device_last_seen_at" json:"device_last_seen_at"` // nullable
	DeviceLastStatus  string         `gorm:"column:device_last_status;type:varchar(32)" json:"device_last_status"`
	DeviceInfo        datatypes.JSON `gorm:"column:device_info;type:jsonb" json:"device_info"` // cache hasil test-connection
	DeviceCreatedAt   time.Time      `gorm:"column:device_created_at;autoCreateTime" json:"device_created_at"`
	DeviceUpdatedAt   time.Time      `gorm:"column:device_updated_at;autoUpdateTime" json:"device_updated_at"`
}

func (DeviceModel) TableName() string {
	return "attendance_devices"
}
