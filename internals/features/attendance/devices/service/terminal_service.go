package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	"schoolku_backend/internals/features/attendance/devices/model"
	employeeModel "schoolku_backend/internals/features/attendance/employees/model"
	eventModel "schoolku_backend/internals/features/attendance/events/model"
	eventsService "schoolku_backend/internals/features/attendance/events/service"
	"schoolku_backend/internals/ws"
	"schoolku_backend/internals/zkproto"
)

// TerminalService menjembatani operasi administratif ke terminal fisik via
// facade zkproto. Error Connection/Timeout diteruskan apa adanya: retry/
// backoff kebijakan pemanggil, bukan service ini.
type TerminalService struct {
	DB     *gorm.DB
	Ingest *eventsService.IngestService
}

func NewTerminalService(db *gorm.DB, hub *ws.Hub) *TerminalService {
	return &TerminalService{
		DB:     db,
		Ingest: eventsService.NewIngestService(db, hub),
	}
}

func (s *TerminalService) client(dev *model.DeviceModel) *zkproto.Client {
	tr := zkproto.NewTransport(fmt.Sprintf("%s:%d", dev.DeviceHost, dev.DevicePort))
	tr.DialTimeout = configs.DeviceConnectTimeout
	tr.CommandTimeout = configs.DeviceCommandTimeout
	return zkproto.NewClientWithTransport(tr)
}

// TestConnection: one-shot handshake + ambil info, lalu cache hasilnya di
// kolom device_info.
func (s *TerminalService) TestConnection(dev *model.DeviceModel) (zkproto.DeviceInfo, error) {
	info, err := s.client(dev).TestConnection()
	if err != nil {
		s.markStatus(dev, "unreachable")
		return zkproto.DeviceInfo{}, err
	}

	raw, merr := json.Marshal(info)
	updates := map[string]any{
		"device_last_seen_at": time.Now(),
		"device_last_status":  "online",
	}
	if merr == nil {
		updates["device_info"] = raw
	}
	if err := s.DB.Model(&model.DeviceModel{}).
		Where("device_id = ?", dev.DeviceID).
		Updates(updates).Error; err != nil {
		log.Printf("[ERROR] Gagal cache device info %s: %v", dev.DeviceID, err)
	}
	return info, nil
}

// SyncUsersToTerminal mendorong semua pegawai aktif sekolah ke memori
// terminal. Mengembalikan jumlah user yang terkirim.
func (s *TerminalService) SyncUsersToTerminal(dev *model.DeviceModel) (int, error) {
	var employees []employeeModel.EmployeeModel
	if err := s.DB.
		Where("employee_school_id = ? AND employee_active = true", dev.DeviceSchoolID).
		Find(&employees).Error; err != nil {
		return 0, err
	}

	client := s.client(dev)
	defer client.Disconnect()

	sent := 0
	for _, emp := range employees {
		uid, err := strconv.ParseUint(emp.EmployeeExternalIdentifier, 10, 16)
		if err != nil {
			log.Printf("[WARN] Pegawai %s punya external identifier non-numerik %q, dilewati", emp.EmployeeID, emp.EmployeeExternalIdentifier)
			continue
		}
		if err := client.SetUser(zkproto.User{
			UID:    uint16(uid),
			Name:   emp.EmployeeName,
			Active: true,
		}); err != nil {
			return sent, err
		}
		sent++
	}
	s.markStatus(dev, "online")
	return sent, nil
}

// PullLogsResult merangkum hasil penarikan log historis.
type PullLogsResult struct {
	Fetched    int `json:"fetched"`
	Ingested   int `json:"ingested"`
	Duplicates int `json:"duplicates"`
	Unknown    int `json:"unknown"`
}

// PullLogs menarik log punch dari terminal dan memasukkannya lewat pipeline
// ingestion yang sama dengan push live: dedup dan rekonsiliasi tetap
// berlaku untuk data historis.
func (s *TerminalService) PullLogs(dev *model.DeviceModel, start, end time.Time) (*PullLogsResult, error) {
	client := s.client(dev)
	defer client.Disconnect()

	records, err := client.GetAttendances(start, end)
	if err != nil {
		s.markStatus(dev, "unreachable")
		return nil, err
	}

	var employees []employeeModel.EmployeeModel
	if err := s.DB.
		Where("employee_school_id = ?", dev.DeviceSchoolID).
		Find(&employees).Error; err != nil {
		return nil, err
	}
	byUID := make(map[string]*employeeModel.EmployeeModel, len(employees))
	for i := range employees {
		byUID[employees[i].EmployeeExternalIdentifier] = &employees[i]
	}

	result := &PullLogsResult{Fetched: len(records)}
	for _, rec := range records {
		emp, ok := byUID[strconv.Itoa(int(rec.UID))]
		if !ok {
			result.Unknown++
			continue
		}
		kind := eventModel.EventKindEntrada
		if rec.Punch == zkproto.PunchCheckOut {
			kind = eventModel.EventKindSaida
		}
		res, err := s.Ingest.IngestDevicePunch(dev, emp, kind, rec.Timestamp)
		if err != nil {
			return result, err
		}
		if res.Duplicate {
			result.Duplicates++
		} else {
			result.Ingested++
		}
	}
	return result, nil
}

// ClearLogs menghapus log di terminal: dipanggil admin setelah pull sukses.
func (s *TerminalService) ClearLogs(dev *model.DeviceModel) error {
	client := s.client(dev)
	defer client.Disconnect()
	return client.ClearAttendances()
}

// SetTime mendorong jam server ke terminal.
func (s *TerminalService) SetTime(dev *model.DeviceModel) error {
	client := s.client(dev)
	defer client.Disconnect()
	return client.SetTime(time.Now())
}

func (s *TerminalService) markStatus(dev *model.DeviceModel, status string) {
	if err := s.DB.Model(&model.DeviceModel{}).
		Where("device_id = ?", dev.DeviceID).
		Update("device_last_status", status).Error; err != nil {
		log.Printf("[ERROR] Gagal update status device %s: %v", dev.DeviceID, err)
	}
}
