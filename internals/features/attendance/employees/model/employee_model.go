package model

import (
	"time"

	"github.com/google/uuid"
)

// EmployeeModel adalah kontrak kolaborator: pegawai milik satu sekolah.
// CRUD-nya dikelola modul kepegawaian di luar subsistem ini; di sini hanya
// dibaca untuk validasi tenant dan provisioning ke terminal.
type EmployeeModel struct {
	EmployeeID                 uuid.UUID `gorm:"column:employee_id;primaryKey;type:uuid;default:gen_random_uuid()" json:"employee_id"`
	EmployeeSchoolID           uuid.UUID `gorm:"column:employee_school_id;type:uuid;not null;index" json:"employee_school_id"`
	EmployeeName               string    `gorm:"column:employee_name;type:varchar(100);not null" json:"employee_name"`
	EmployeeExternalIdentifier string    `gorm:"column:employee_external_identifier;type:varchar(16);not null" json:"employee_external_identifier"` // uid di terminal
	EmployeeActive             bool      `gorm:"column:employee_active;not null;default:true" json:"employee_active"`
	EmployeeCreatedAt          time.Time `gorm:"column:employee_created_at;autoCreateTime" json:"employee_created_at"`
	EmployeeUpdatedAt          time.Time `gorm:"column:employee_updated_at;autoUpdateTime" json:"employee_updated_at"`
}

func (EmployeeModel) TableName() string {
	return "employees"
}
