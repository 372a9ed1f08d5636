package labelring

import "fmt"

const (
	// ReplicaIDSize is the size of the replica identifier copied into a block.
	ReplicaIDSize = 32

	// MinBlockSize is the smallest buffer PrepareBlock can write into.
	MinBlockSize = lengthOffset + 1

	layerOffset   = 35
	paddingOffset = 64
	lengthOffset  = 126

	paddingMarker = 0x80
	lengthMarker  = 0x02 // 512-bit message length
)

// PrepareBlock writes the fixed pre-hash layout for one node into buf:
//
//	[0,32)  replicaID
//	35      layer & 0xFF
//	64      0x80 (padding)
//	126     0x02 (length, 512 bits)
//
// Every other byte is left as is; the caller is responsible for putting the
// rest of buf in the state the downstream compression function expects
// (usually by clearing it with Memset first).
//
// PrepareBlock panics if len(replicaID) != 32 or len(buf) < MinBlockSize.
func PrepareBlock(replicaID []byte, layer uint32, buf []byte) {
	if len(replicaID) != ReplicaIDSize {
		panic(fmt.Sprintf("labelring: replica id is %d bytes, want %d", len(replicaID), ReplicaIDSize))
	}
	_ = buf[lengthOffset] // bounds check hint

	copy(buf[:ReplicaIDSize], replicaID)
	buf[layerOffset] = byte(layer)
	buf[paddingOffset] = paddingMarker
	buf[lengthOffset] = lengthMarker
}

// Memset sets every byte of buf to v. A zero-length buf is a no-op.
func Memset(buf []byte, v byte) {
	for i := range buf {
		buf[i] = v
	}
}
