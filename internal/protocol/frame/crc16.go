package frame

// Checksum computes the CRC-16 used for frame integrity. This is a
// table-driven CRC-16/XMODEM (polynomial 0x1021, initial value 0), computed
// over every frame byte from the start marker through the end of the payload.
func Checksum(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc16Table[byte(crc>>8)^b] ^ (crc << 8)
	}
	return crc
}

// VerifyChecksum recomputes the CRC over data and compares it to want.
func VerifyChecksum(data []byte, want uint16) bool {
	return Checksum(data) == want
}

var crc16Table = func() [256]uint16 {
	var table [256]uint16
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if (crc & 0x8000) != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}()
