package service

import (
	"fmt"
	"time"

	"schoolku_backend/internals/features/attendance/daily/model"
)

// ApplyPunch menjalankan satu transisi state machine kehadiran di memori.
// Murni supaya bisa diuji tanpa DB; penulisan/locking ada di ReconcileService.
//
// Aturan:
//   - ENTRADA mengisi entry hanya kalau belum ada; SAIDA selalu mengisi exit.
//   - HoursWorked = (menit exit - menit entry) / 60, minimal 0.
//   - Status: tanpa entry → INCOMPLETE; entry lewat jam standar → LATE;
//     selain itu PRESENT. Status mengikuti keterlambatan entry: exit sore
//     tidak "menyembuhkan" LATE.
func ApplyPunch(att *model.DailyAttendanceModel, kind string, ts time.Time, standardEntryMinutes int) {
	switch kind {
	case "ENTRADA":
		if att.DailyAttendanceEntryTime == nil {
			t := ts
			att.DailyAttendanceEntryTime = &t
		}
	case "SAIDA":
		t := ts
		att.DailyAttendanceExitTime = &t
	}

	entry := att.DailyAttendanceEntryTime
	exit := att.DailyAttendanceExitTime

	if entry != nil && exit != nil {
		mins := minutesOfDay(*exit) - minutesOfDay(*entry)
		if mins < 0 {
			mins = 0
		}
		att.DailyAttendanceHoursWorked = float64(mins) / 60
	}

	switch {
	case entry == nil:
		att.DailyAttendanceStatus = model.StatusIncomplete
	case minutesOfDay(*entry) > standardEntryMinutes:
		att.DailyAttendanceStatus = model.StatusLate
	default:
		att.DailyAttendanceStatus = model.StatusPresent
	}
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Snapshot meringkas agregat untuk audit trail (before/after).
func Snapshot(att *model.DailyAttendanceModel) string {
	if att == nil || att.DailyAttendanceStatus == "" {
		return "none"
	}
	return fmt.Sprintf("{entry:%s exit:%s status:%s hours:%.2f origin:%s}",
		fmtClock(att.DailyAttendanceEntryTime),
		fmtClock(att.DailyAttendanceExitTime),
		att.DailyAttendanceStatus,
		att.DailyAttendanceHoursWorked,
		att.DailyAttendanceOrigin,
	)
}

func fmtClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04")
}
