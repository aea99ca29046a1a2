package zkproto

import (
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

var (
	ErrConnection   = errors.New("zkproto: koneksi ke terminal gagal")
	ErrTimeout      = errors.New("zkproto: terminal tidak merespons")
	ErrNotConnected = errors.New("zkproto: belum terhubung ke terminal")
)

const (
	DefaultDialTimeout    = 5 * time.Second
	DefaultCommandTimeout = 10 * time.Second
)

// Transport memiliki tepat satu socket TCP ke satu terminal. Session id dan
// reply id dimiliki eksklusif oleh satu instance: dua Transport tidak boleh
// berbagi socket. Mutex menjamin hanya satu command in-flight per koneksi
// (tidak ada pipelining); pemanggil berikutnya antre di lock.
type Transport struct {
	Addr           string
	DialTimeout    time.Duration
	CommandTimeout time.Duration

	mu        sync.Mutex
	conn      net.Conn
	sessionID uint16
	replyID   uint16
	connected bool
}

func NewTransport(addr string) *Transport {
	return &Transport{
		Addr:           addr,
		DialTimeout:    DefaultDialTimeout,
		CommandTimeout: DefaultCommandTimeout,
	}
}

// Connect membuka socket (timeout 5s) lalu handshake CMD_CONNECT. Dua byte
// pertama payload balasan menjadi session id untuk semua frame berikutnya;
// kalau payload kosong, field session di header balasan yang dipakai.
func (t *Transport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected && t.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("tcp", t.Addr, t.DialTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	t.conn = conn
	t.sessionID = 0
	t.replyID = 0

	reply, err := t.exchange(CmdConnect, nil)
	if err != nil {
		conn.Close()
		t.conn = nil
		return err
	}

	if len(reply.Payload) >= 2 {
		t.sessionID = uint16(reply.Payload[0]) | uint16(reply.Payload[1])<<8
	} else {
		t.sessionID = reply.SessionID
	}
	t.connected = true
	return nil
}

// SendCommand mengirim satu command dan menunggu balasan dengan reply id yang
// sama. Frame dengan reply id lain (sisa exchange basi) diabaikan.
func (t *Transport) SendCommand(command uint16, payload []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected || t.conn == nil {
		return nil, ErrNotConnected
	}
	reply, err := t.exchange(command, payload)
	if err != nil {
		return nil, err
	}
	return reply.Payload, nil
}

// exchange mengirim frame dan mengakumulasi byte masuk sampai satu frame
// utuh dengan reply id yang cocok terbaca. Caller wajib memegang t.mu.
func (t *Transport) exchange(command uint16, payload []byte) (*Frame, error) {
	t.replyID++
	rid := t.replyID

	frame := Encode(command, t.sessionID, rid, payload)
	deadline := time.Now().Add(t.CommandTimeout)

	_ = t.conn.SetWriteDeadline(deadline)
	if _, err := t.conn.Write(frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	buf := make([]byte, 0, 512)
	chunk := make([]byte, 512)
	for {
		_ = t.conn.SetReadDeadline(deadline)
		n, err := t.conn.Read(chunk)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return nil, fmt.Errorf("%w: tidak ada balasan reply_id=%d dalam %s", ErrTimeout, rid, t.CommandTimeout)
			}
			return nil, fmt.Errorf("%w: %v", ErrConnection, err)
		}
		buf = append(buf, chunk[:n]...)

		// satu segmen TCP bisa berisi lebih dari satu frame; konsumsi frame
		// per frame supaya frame basi tidak menyeret balasan yang ditunggu
		for {
			decoded, used, derr := DecodeNext(buf)
			if errors.Is(derr, ErrShortFrame) || errors.Is(derr, ErrIncomplete) {
				break
			}
			if derr != nil {
				return nil, fmt.Errorf("%w: %v", ErrConnection, derr)
			}
			buf = buf[used:]
			if decoded.ReplyID != rid {
				// balasan milik exchange lama, lewati frame ini saja
				log.Printf("[WARN] zkproto: frame reply_id=%d diabaikan (menunggu %d)", decoded.ReplyID, rid)
				continue
			}
			if decoded.Command == CmdAckError {
				log.Printf("[WARN] zkproto: terminal membalas CMD_ACK_ERROR untuk command %d", command)
			}
			return decoded, nil
		}
	}
}

// Disconnect best-effort mengirim CMD_EXIT (error diabaikan) lalu menutup
// socket dan membersihkan state session. Idempoten.
func (t *Transport) Disconnect() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		if t.connected {
			t.replyID++
			_ = t.conn.SetWriteDeadline(time.Now().Add(time.Second))
			_, _ = t.conn.Write(Encode(CmdExit, t.sessionID, t.replyID, nil))
		}
		_ = t.conn.Close()
	}
	t.conn = nil
	t.connected = false
	t.sessionID = 0
	t.replyID = 0
}

// IsConnected true hanya kalau socket hidup dan handshake sudah sukses.
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected && t.conn != nil
}
