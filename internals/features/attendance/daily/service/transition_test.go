package service

import (
	"math"
	"testing"
	"time"

	"schoolku_backend/internals/features/attendance/daily/model"
)

const standardEntry = 8 * 60 // 08:00

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 1, hour, min, 0, 0, time.UTC)
}

func TestApplyPunchEntradaOnTimeIsPresent(t *testing.T) {
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(8, 0), standardEntry)

	if att.DailyAttendanceStatus != model.StatusPresent {
		t.Errorf("entrada tepat jam standar: got %s, want PRESENT", att.DailyAttendanceStatus)
	}
	if att.DailyAttendanceEntryTime == nil || !att.DailyAttendanceEntryTime.Equal(at(8, 0)) {
		t.Errorf("entry time tidak terisi: %v", att.DailyAttendanceEntryTime)
	}
}

func TestApplyPunchEntradaOneMinuteLateIsLate(t *testing.T) {
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(8, 1), standardEntry)

	if att.DailyAttendanceStatus != model.StatusLate {
		t.Errorf("entrada 08:01: got %s, want LATE", att.DailyAttendanceStatus)
	}
}

func TestApplyPunchSaidaOnlyIsIncomplete(t *testing.T) {
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "SAIDA", at(17, 0), standardEntry)

	if att.DailyAttendanceStatus != model.StatusIncomplete {
		t.Errorf("saida tanpa entrada: got %s, want INCOMPLETE", att.DailyAttendanceStatus)
	}
	if att.DailyAttendanceEntryTime != nil {
		t.Error("entry time harus tetap kosong")
	}
	if att.DailyAttendanceExitTime == nil {
		t.Error("exit time harus terisi")
	}
}

func TestApplyPunchHoursWorked(t *testing.T) {
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(8, 0), standardEntry)
	ApplyPunch(&att, "SAIDA", at(17, 30), standardEntry)

	if att.DailyAttendanceHoursWorked != 9.5 {
		t.Errorf("08:00-17:30: got %v jam, want 9.5", att.DailyAttendanceHoursWorked)
	}
	if att.DailyAttendanceStatus != model.StatusPresent {
		t.Errorf("got %s, want PRESENT", att.DailyAttendanceStatus)
	}
}

func TestApplyPunchLateEntryStaysLateAfterExit(t *testing.T) {
	// skenario end-to-end: entrada 08:05 → LATE; saida 17:00 tidak
	// mengembalikan status ke PRESENT
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(8, 5), standardEntry)
	if att.DailyAttendanceStatus != model.StatusLate {
		t.Fatalf("setelah entrada 08:05: got %s, want LATE", att.DailyAttendanceStatus)
	}

	ApplyPunch(&att, "SAIDA", at(17, 0), standardEntry)
	if att.DailyAttendanceStatus != model.StatusLate {
		t.Errorf("setelah saida: got %s, status harus tetap LATE", att.DailyAttendanceStatus)
	}
	if math.Abs(att.DailyAttendanceHoursWorked-8.9166) > 0.001 {
		t.Errorf("hours worked: got %v, want ≈8.92", att.DailyAttendanceHoursWorked)
	}
}

func TestApplyPunchEntradaDoesNotOverwriteEntry(t *testing.T) {
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(8, 0), standardEntry)
	ApplyPunch(&att, "ENTRADA", at(9, 30), standardEntry)

	if !att.DailyAttendanceEntryTime.Equal(at(8, 0)) {
		t.Errorf("entrada kedua menimpa entry: %v", att.DailyAttendanceEntryTime)
	}
	if att.DailyAttendanceStatus != model.StatusPresent {
		t.Errorf("status ikut entry pertama: got %s", att.DailyAttendanceStatus)
	}
}

func TestApplyPunchExitBeforeEntryFloorsAtZero(t *testing.T) {
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(17, 0), standardEntry)
	ApplyPunch(&att, "SAIDA", at(8, 0), standardEntry)

	if att.DailyAttendanceHoursWorked != 0 {
		t.Errorf("exit sebelum entry: got %v jam, want 0", att.DailyAttendanceHoursWorked)
	}
}

func TestApplyPunchLateSaidaCompletesIncomplete(t *testing.T) {
	// SAIDA dulu (INCOMPLETE), ENTRADA menyusul → status dihitung ulang
	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "SAIDA", at(17, 0), standardEntry)
	ApplyPunch(&att, "ENTRADA", at(7, 45), standardEntry)

	if att.DailyAttendanceStatus != model.StatusPresent {
		t.Errorf("got %s, want PRESENT", att.DailyAttendanceStatus)
	}
	if att.DailyAttendanceHoursWorked != 9.25 {
		t.Errorf("07:45-17:00: got %v jam, want 9.25", att.DailyAttendanceHoursWorked)
	}
}

func TestSnapshot(t *testing.T) {
	if got := Snapshot(nil); got != "none" {
		t.Errorf("snapshot nil: %q", got)
	}

	att := model.DailyAttendanceModel{DailyAttendanceOrigin: model.OriginBiometric}
	ApplyPunch(&att, "ENTRADA", at(8, 5), standardEntry)
	got := Snapshot(&att)
	want := "{entry:08:05 exit:- status:LATE hours:0.00 origin:BIOMETRIC}"
	if got != want {
		t.Errorf("snapshot: got %q want %q", got, want)
	}
}
