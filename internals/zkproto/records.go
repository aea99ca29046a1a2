package zkproto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// User adalah satu record user di memori terminal.
type User struct {
	UID       uint16
	Privilege uint8
	Password  string
	Name      string
	Active    bool
}

// AttendanceRecord adalah satu punch di log terminal.
type AttendanceRecord struct {
	UID       uint16
	Punch     uint8 // PunchCheckIn / PunchCheckOut
	Timestamp time.Time
}

// DeviceInfo hasil parse best-effort dari balasan CMD_DEVICE_INFO.
type DeviceInfo struct {
	Serial string `json:"serial"`
	Model  string `json:"model"`
}

// Layout record user fixed-width:
//
//	uid:u16 | reserved:u16 | privilege:u8 | password:char[8] | nameLen:u8 | name:char[nameLen] | active:u8
const (
	userFixedLen     = 14 // tanpa name
	maxPasswordLen   = 8
	maxNameLen       = 0xff
	dateTimeLen      = 7  // year-2000:u16 | month,day,hour,min,sec:u8
	attendanceRecLen = 10 // uid:u16 | punch:u8 | datetime:7B
)

func encodeUser(u User) ([]byte, error) {
	if len(u.Name) > maxNameLen {
		return nil, fmt.Errorf("zkproto: nama user terlalu panjang (%d byte)", len(u.Name))
	}
	if len(u.Password) > maxPasswordLen {
		return nil, fmt.Errorf("zkproto: password user maksimal %d byte", maxPasswordLen)
	}

	buf := make([]byte, userFixedLen+len(u.Name)+1)
	binary.LittleEndian.PutUint16(buf[0:2], u.UID)
	// buf[2:4] reserved = 0
	buf[4] = u.Privilege
	copy(buf[5:13], u.Password)
	buf[13] = uint8(len(u.Name))
	copy(buf[14:], u.Name)
	if u.Active {
		buf[len(buf)-1] = 1
	}
	return buf, nil
}

// decodeUsers membaca nol, satu, atau banyak record user yang masing-masing
// diawali satu byte panjang. Record yang terpotong di ekor payload dibuang.
func decodeUsers(payload []byte) []User {
	var users []User
	for len(payload) > 0 {
		size := int(payload[0])
		if size == 0 || len(payload) < 1+size {
			break
		}
		rec := payload[1 : 1+size]
		payload = payload[1+size:]

		if len(rec) < userFixedLen+1 {
			continue
		}
		nameLen := int(rec[13])
		if len(rec) < userFixedLen+nameLen+1 {
			continue
		}
		users = append(users, User{
			UID:       binary.LittleEndian.Uint16(rec[0:2]),
			Privilege: rec[4],
			Password:  string(bytes.TrimRight(rec[5:13], "\x00")),
			Name:      string(rec[14 : 14+nameLen]),
			Active:    rec[14+nameLen] == 1,
		})
	}
	return users
}

func encodeDateTime(t time.Time) []byte {
	buf := make([]byte, dateTimeLen)
	year := t.Year() - 2000
	if year < 0 {
		year = 0
	}
	binary.LittleEndian.PutUint16(buf[0:2], uint16(year))
	buf[2] = uint8(t.Month())
	buf[3] = uint8(t.Day())
	buf[4] = uint8(t.Hour())
	buf[5] = uint8(t.Minute())
	buf[6] = uint8(t.Second())
	return buf
}

func decodeDateTime(b []byte) time.Time {
	if len(b) < dateTimeLen {
		return time.Time{}
	}
	year := int(binary.LittleEndian.Uint16(b[0:2])) + 2000
	return time.Date(year, time.Month(b[2]), int(b[3]), int(b[4]), int(b[5]), int(b[6]), 0, time.Local)
}

// decodeAttendances membaca stream record attendance size-prefixed, pola
// yang sama dengan decodeUsers.
func decodeAttendances(payload []byte) []AttendanceRecord {
	var recs []AttendanceRecord
	for len(payload) > 0 {
		size := int(payload[0])
		if size == 0 || len(payload) < 1+size {
			break
		}
		rec := payload[1 : 1+size]
		payload = payload[1+size:]

		if len(rec) < attendanceRecLen {
			continue
		}
		recs = append(recs, AttendanceRecord{
			UID:       binary.LittleEndian.Uint16(rec[0:2]),
			Punch:     rec[2],
			Timestamp: decodeDateTime(rec[3:]),
		})
	}
	return recs
}

// decodeDeviceInfo parse fixed-offset: serial di [0:16], model di [16:32].
// Layout aslinya beda-beda antar firmware, jadi field yang tidak ada diisi
// "unknown" alih-alih error.
func decodeDeviceInfo(payload []byte) DeviceInfo {
	info := DeviceInfo{Serial: "unknown", Model: "unknown"}
	if s := sliceString(payload, 0, 16); s != "" {
		info.Serial = s
	}
	if s := sliceString(payload, 16, 32); s != "" {
		info.Model = s
	}
	return info
}

func sliceString(b []byte, from, to int) string {
	if from >= len(b) {
		return ""
	}
	if to > len(b) {
		to = len(b)
	}
	return string(bytes.TrimRight(b[from:to], "\x00 "))
}
