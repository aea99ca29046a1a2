package zkproto

import (
	"encoding/binary"
	"time"
)

// Client adalah wrapper bertipe di atas Transport untuk operasi administratif
// terminal. Semua method meneruskan error Transport apa adanya
// (ErrConnection / ErrTimeout): retry/backoff urusan pemanggil, bukan jalur
// panas ingestion.
type Client struct {
	transport *Transport
}

func NewClient(addr string) *Client {
	return &Client{transport: NewTransport(addr)}
}

// NewClientWithTransport dipakai saat timeout perlu di-override (admin op
// dengan konfigurasi sendiri, atau test).
func NewClientWithTransport(t *Transport) *Client {
	return &Client{transport: t}
}

func (c *Client) ensureConnected() error {
	if c.transport.IsConnected() {
		return nil
	}
	return c.transport.Connect()
}

func (c *Client) Disconnect() {
	c.transport.Disconnect()
}

// TestConnection adalah operasi one-shot: connect, ambil info, disconnect.
func (c *Client) TestConnection() (DeviceInfo, error) {
	if err := c.transport.Connect(); err != nil {
		return DeviceInfo{}, err
	}
	defer c.transport.Disconnect()

	payload, err := c.transport.SendCommand(CmdDeviceInfo, nil)
	if err != nil {
		return DeviceInfo{}, err
	}
	return decodeDeviceInfo(payload), nil
}

func (c *Client) GetDeviceInfo() (DeviceInfo, error) {
	if err := c.ensureConnected(); err != nil {
		return DeviceInfo{}, err
	}
	payload, err := c.transport.SendCommand(CmdDeviceInfo, nil)
	if err != nil {
		return DeviceInfo{}, err
	}
	return decodeDeviceInfo(payload), nil
}

func (c *Client) ListUsers() ([]User, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}
	payload, err := c.transport.SendCommand(CmdUserList, nil)
	if err != nil {
		return nil, err
	}
	return decodeUsers(payload), nil
}

func (c *Client) SetUser(u User) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	record, err := encodeUser(u)
	if err != nil {
		return err
	}
	_, err = c.transport.SendCommand(CmdUserSet, record)
	return err
}

func (c *Client) DeleteUser(uid uint16) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	payload := make([]byte, 2)
	binary.LittleEndian.PutUint16(payload, uid)
	_, err := c.transport.SendCommand(CmdUserDelete, payload)
	return err
}

// GetAttendances menarik log punch dalam rentang [start, end].
func (c *Client) GetAttendances(start, end time.Time) ([]AttendanceRecord, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}
	payload := append(encodeDateTime(start), encodeDateTime(end)...)
	resp, err := c.transport.SendCommand(CmdAttLogRead, payload)
	if err != nil {
		return nil, err
	}
	return decodeAttendances(resp), nil
}

func (c *Client) ClearAttendances() error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	_, err := c.transport.SendCommand(CmdAttLogClear, nil)
	return err
}

// SetTime mendorong jam server ke terminal supaya timestamp punch yang
// dilaporkan tetap bisa dipercaya di rekonsiliasi.
func (c *Client) SetTime(t time.Time) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}
	_, err := c.transport.SendCommand(CmdSetTime, encodeDateTime(t))
	return err
}
