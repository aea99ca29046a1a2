package zkproto

// Kode command sesuai spesifikasi vendor: nilai harus sama bit-for-bit
// supaya interoperable dengan firmware terminal.
const (
	CmdConnect     uint16 = 1000
	CmdExit        uint16 = 1001
	CmdEnableDev   uint16 = 1002
	CmdDisableDev  uint16 = 1003
	CmdDeviceInfo  uint16 = 11
	CmdUserList    uint16 = 9
	CmdUserSet     uint16 = 8
	CmdUserDelete  uint16 = 18
	CmdAttLogRead  uint16 = 13
	CmdAttLogClear uint16 = 15
	CmdSetTime     uint16 = 202

	CmdAckOK    uint16 = 2000
	CmdAckError uint16 = 2001
	CmdAckData  uint16 = 2002
)

// Privilege level user di terminal
const (
	PrivilegeUser  uint8 = 0
	PrivilegeAdmin uint8 = 14
)

// Kode jenis punch yang dilaporkan terminal di attendance log
const (
	PunchCheckIn  uint8 = 0
	PunchCheckOut uint8 = 1
)
