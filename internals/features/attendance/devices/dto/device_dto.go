package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/attendance/devices/model"
)

// ================== REQUEST ==================
type ProvisionDeviceRequest struct {
	DeviceName        string   `json:"device_name" validate:"required,max=100"`
	DeviceHost        string   `json:"device_host" validate:"required,max=64"`
	DevicePort        int      `json:"device_port" validate:"omitempty,min=1,max=65535"`
	DeviceIPAllowlist []string `json:"device_ip_allowlist"`
}

type UpdateDeviceRequest struct {
	DeviceName        *string   `json:"device_name" validate:"omitempty,max=100"`
	DeviceHost        *string   `json:"device_host" validate:"omitempty,max=64"`
	DevicePort        *int      `json:"device_port" validate:"omitempty,min=1,max=65535"`
	DeviceIPAllowlist *[]string `json:"device_ip_allowlist"`
}

type PullLogsRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// ================== RESPONSE ==================
type DeviceResponse struct {
	DeviceID          uuid.UUID  `json:"device_id"`
	DeviceSchoolID    uuid.UUID  `json:"device_school_id"`
	DeviceName        string     `json:"device_name"`
	DeviceHost        string     `json:"device_host"`
	DevicePort        int        `json:"device_port"`
	DeviceIPAllowlist []string   `json:"device_ip_allowlist"`
	DeviceActive      bool       `json:"device_active"`
	DeviceLastSeenAt  *time.Time `json:"device_last_seen_at"`
	DeviceLastStatus  string     `json:"device_last_status"`
	DeviceInfo        any        `json:"device_info,omitempty"`
	DeviceCreatedAt   string     `json:"device_created_at"`
}

// ProvisionedDeviceResponse menyertakan token sekali saja, saat provisioning.
type ProvisionedDeviceResponse struct {
	DeviceResponse
	DeviceToken string `json:"device_token"`
}

// ================ CONVERSION =================
func (r *ProvisionDeviceRequest) ToModel(schoolID uuid.UUID, token string) *model.DeviceModel {
	port := r.DevicePort
	if port == 0 {
		port = 4370
	}
	return &model.DeviceModel{
		DeviceSchoolID:    schoolID,
		DeviceName:        r.DeviceName,
		DeviceHost:        r.DeviceHost,
		DevicePort:        port,
		DeviceToken:       token,
		DeviceIPAllowlist: r.DeviceIPAllowlist,
		DeviceActive:      true,
	}
}

func ToDeviceResponse(m *model.DeviceModel) *DeviceResponse {
	resp := &DeviceResponse{
		DeviceID:          m.DeviceID,
		DeviceSchoolID:    m.DeviceSchoolID,
		DeviceName:        m.DeviceName,
		DeviceHost:        m.DeviceHost,
		DevicePort:        m.DevicePort,
		DeviceIPAllowlist: m.DeviceIPAllowlist,
		DeviceActive:      m.DeviceActive,
		DeviceLastSeenAt:  m.DeviceLastSeenAt,
		DeviceLastStatus:  m.DeviceLastStatus,
		DeviceCreatedAt:   m.DeviceCreatedAt.Format("2006-01-02 15:04:05"),
	}
	if len(m.DeviceInfo) > 0 {
		resp.DeviceInfo = m.DeviceInfo
	}
	return resp
}

func ToDeviceResponseList(models []model.DeviceModel) []DeviceResponse {
	var result []DeviceResponse
	for _, m := range models {
		result = append(result, *ToDeviceResponse(&m))
	}
	return result
}
