package message

import (
	"net"

	"github.com/mohae/deepcopy"
)

// Packet is one raw datagram together with its addressing. Data holds the
// whole IKE message, fixed header included.
type Packet struct {
	Source      *net.UDPAddr
	Destination *net.UDPAddr
	Data        []byte
}

// Clone returns an independent deep copy of the packet.
func (packet *Packet) Clone() *Packet {
	return deepcopy.Copy(packet).(*Packet)
}
