package zkproto

import (
	"encoding/binary"
	"errors"
	"log"
)

// Layout frame (little-endian, sesuai protokol vendor):
//
//	[2B] START     = 0x5050
//	[2B] COMMAND
//	[2B] CHECKSUM  = sum seluruh byte setelah START (field checksum dihitung 0,
//	                 terminator tidak ikut) mod 0x10000
//	[2B] SESSION_ID
//	[2B] REPLY_ID
//	[NB] PAYLOAD
//	[2B] TERMINATOR = 0xAA55
//
// Tidak ada field panjang di depan, jadi decoder dipanggil opportunistic
// setiap kali ada byte baru sampai frame utuh terbaca.
const (
	startMarker uint16 = 0x5050
	terminator  uint16 = 0xAA55

	headerLen  = 10
	trailerLen = 2
)

var (
	ErrShortFrame = errors.New("zkproto: frame kurang dari 10 byte")
	ErrBadStart   = errors.New("zkproto: start marker tidak dikenal")
	// ErrIncomplete: buffer valid tapi terminator belum sampai, caller
	// harus mengakumulasi byte berikutnya lalu coba decode lagi.
	ErrIncomplete = errors.New("zkproto: frame belum lengkap")
)

// Frame adalah hasil decode satu paket dari terminal.
type Frame struct {
	Command   uint16
	SessionID uint16
	ReplyID   uint16
	Payload   []byte
}

// Encode membangun satu frame utuh siap kirim.
func Encode(command, sessionID, replyID uint16, payload []byte) []byte {
	buf := make([]byte, headerLen+len(payload)+trailerLen)

	binary.LittleEndian.PutUint16(buf[0:2], startMarker)
	binary.LittleEndian.PutUint16(buf[2:4], command)
	// checksum diisi belakangan, sementara 0
	binary.LittleEndian.PutUint16(buf[6:8], sessionID)
	binary.LittleEndian.PutUint16(buf[8:10], replyID)
	copy(buf[headerLen:], payload)
	binary.LittleEndian.PutUint16(buf[len(buf)-trailerLen:], terminator)

	binary.LittleEndian.PutUint16(buf[4:6], checksum(buf))
	return buf
}

// Decode membaca buffer menjadi Frame. Checksum yang tidak cocok hanya
// di-log, bukan error keras: beberapa versi firmware menghitungnya beda.
func Decode(buf []byte) (*Frame, error) {
	if len(buf) < headerLen {
		return nil, ErrShortFrame
	}
	if binary.LittleEndian.Uint16(buf[0:2]) != startMarker {
		return nil, ErrBadStart
	}
	if len(buf) < headerLen+trailerLen ||
		binary.LittleEndian.Uint16(buf[len(buf)-trailerLen:]) != terminator {
		return nil, ErrIncomplete
	}

	got := binary.LittleEndian.Uint16(buf[4:6])
	if want := checksum(buf); got != want {
		log.Printf("[WARN] zkproto: checksum tidak cocok (got=0x%04x want=0x%04x), frame tetap diproses", got, want)
	}

	payload := make([]byte, len(buf)-headerLen-trailerLen)
	copy(payload, buf[headerLen:len(buf)-trailerLen])

	return &Frame{
		Command:   binary.LittleEndian.Uint16(buf[2:4]),
		SessionID: binary.LittleEndian.Uint16(buf[6:8]),
		ReplyID:   binary.LittleEndian.Uint16(buf[8:10]),
		Payload:   payload,
	}, nil
}

// DecodeNext membaca tepat satu frame dari awal buf dan mengembalikan jumlah
// byte yang terpakai. TCP tidak punya batas pesan, jadi dua frame bisa datang
// menempel di satu segmen; byte setelah frame pertama dibiarkan di buffer
// untuk panggilan berikutnya, bukan ikut terbuang.
func DecodeNext(buf []byte) (*Frame, int, error) {
	if len(buf) < headerLen {
		return nil, 0, ErrShortFrame
	}
	if binary.LittleEndian.Uint16(buf[0:2]) != startMarker {
		return nil, 0, ErrBadStart
	}
	for end := headerLen + trailerLen; end <= len(buf); end++ {
		if binary.LittleEndian.Uint16(buf[end-trailerLen:end]) != terminator {
			continue
		}
		frame, err := Decode(buf[:end])
		if err != nil {
			return nil, 0, err
		}
		return frame, end, nil
	}
	return nil, 0, ErrIncomplete
}

// checksum menjumlahkan semua byte setelah START dengan field checksum
// dianggap nol dan terminator tidak ikut dihitung.
func checksum(frame []byte) uint16 {
	var sum uint32
	for i := 2; i < len(frame)-trailerLen; i++ {
		if i == 4 || i == 5 {
			continue
		}
		sum += uint32(frame[i])
	}
	return uint16(sum % 0x10000)
}
