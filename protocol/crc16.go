package protocol

// CRC16 is CRC-16/MCRF4XX (reflected CCITT polynomial, initial value
// 0xFFFF, no final xor).
func CRC16(data []byte) uint16 {
	return crc16Update(0xFFFF, data)
}

// CRC16Words runs CRC16 over words in little-endian byte order.
func CRC16Words(words []uint32) uint16 {
	var buf [4]byte
	crc := uint16(0xFFFF)
	for _, w := range words {
		buf[0] = byte(w)
		buf[1] = byte(w >> 8)
		buf[2] = byte(w >> 16)
		buf[3] = byte(w >> 24)
		crc = crc16Update(crc, buf[:])
	}
	return crc
}

func crc16Update(crc uint16, data []byte) uint16 {
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}
