package zkproto

import (
	"testing"
	"time"
)

func prefixed(records ...[]byte) []byte {
	var out []byte
	for _, r := range records {
		out = append(out, byte(len(r)))
		out = append(out, r...)
	}
	return out
}

func TestUserRecordRoundTrip(t *testing.T) {
	users := []User{
		{UID: 1, Privilege: PrivilegeUser, Password: "1234", Name: "Budi Santoso", Active: true},
		{UID: 900, Privilege: PrivilegeAdmin, Password: "", Name: "A", Active: false},
	}

	var encoded [][]byte
	for _, u := range users {
		rec, err := encodeUser(u)
		if err != nil {
			t.Fatalf("encodeUser(%d): %v", u.UID, err)
		}
		encoded = append(encoded, rec)
	}

	decoded := decodeUsers(prefixed(encoded...))
	if len(decoded) != len(users) {
		t.Fatalf("got %d user, want %d", len(decoded), len(users))
	}
	for i, u := range users {
		if decoded[i] != u {
			t.Errorf("user[%d]: got %+v want %+v", i, decoded[i], u)
		}
	}
}

func TestDecodeUsersEmptyAndTruncated(t *testing.T) {
	if got := decodeUsers(nil); len(got) != 0 {
		t.Errorf("payload kosong: got %d user", len(got))
	}

	rec, _ := encodeUser(User{UID: 5, Name: "X", Active: true})
	payload := prefixed(rec)
	// potong ekor: record terpotong harus dibuang tanpa panic
	if got := decodeUsers(payload[:len(payload)-3]); len(got) != 0 {
		t.Errorf("record terpotong: got %d user", len(got))
	}
}

func TestEncodeUserLimits(t *testing.T) {
	if _, err := encodeUser(User{UID: 1, Password: "123456789"}); err == nil {
		t.Error("password > 8 byte harus error")
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 5, 30, 0, time.Local)
	got := decodeDateTime(encodeDateTime(ts))
	if !got.Equal(ts) {
		t.Errorf("got %v want %v", got, ts)
	}
}

func TestDecodeAttendancesStream(t *testing.T) {
	mk := func(uid uint16, punch uint8, ts time.Time) []byte {
		rec := []byte{byte(uid), byte(uid >> 8), punch}
		return append(rec, encodeDateTime(ts)...)
	}

	t1 := time.Date(2024, 3, 1, 8, 5, 0, 0, time.Local)
	t2 := time.Date(2024, 3, 1, 17, 0, 0, 0, time.Local)
	payload := prefixed(mk(42, PunchCheckIn, t1), mk(42, PunchCheckOut, t2))

	recs := decodeAttendances(payload)
	if len(recs) != 2 {
		t.Fatalf("got %d record, want 2", len(recs))
	}
	if recs[0].UID != 42 || recs[0].Punch != PunchCheckIn || !recs[0].Timestamp.Equal(t1) {
		t.Errorf("record[0]: %+v", recs[0])
	}
	if recs[1].Punch != PunchCheckOut || !recs[1].Timestamp.Equal(t2) {
		t.Errorf("record[1]: %+v", recs[1])
	}
}

func TestDecodeDeviceInfoBestEffort(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		serial  string
		model   string
	}{
		{"kosong", nil, "unknown", "unknown"},
		{"hanya serial pendek", []byte("SN001\x00\x00"), "SN001", "unknown"},
		{
			"serial dan model",
			append(append([]byte("SN-0012345\x00\x00\x00\x00\x00\x00"), []byte("FP-TERM-X7")...), 0, 0),
			"SN-0012345",
			"FP-TERM-X7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := decodeDeviceInfo(tt.payload)
			if info.Serial != tt.serial || info.Model != tt.model {
				t.Errorf("got %+v", info)
			}
		})
	}
}
