package dto

// PushEventRequest adalah body push punch dari layanan integrasi terminal.
type PushEventRequest struct {
	DeviceID   string `json:"device_id" validate:"required,uuid"`
	EmployeeID string `json:"employee_id" validate:"required,uuid"`
	EventKind  string `json:"event_kind" validate:"required,oneof=ENTRADA SAIDA"`
	Timestamp  string `json:"timestamp" validate:"required"` // ISO-8601
	Token      string `json:"token" validate:"required"`
}

type SyncEmployeesRequest struct {
	DeviceID string `json:"device_id" validate:"required,uuid"`
	Token    string `json:"token" validate:"required"`
}

// EmployeeSyncResponse adalah satu pegawai aktif untuk provisioning ke
// terminal fisik.
type EmployeeSyncResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ExternalIdentifier string `json:"external_identifier"`
}
