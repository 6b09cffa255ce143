//go:build cgo

package injection

import (
	"fmt"

	"github.com/google/gopacket/pcap"
)

// PcapInjector writes frames through a libpcap handle.
type PcapInjector struct {
	handle *pcap.Handle
}

// NewPcapInjector opens a pcap handle for injection on iface.
func NewPcapInjector(iface string) (PacketInjector, error) {
	handle, err := pcap.OpenLive(iface, 1024, false, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("pcap open failed: %w", err)
	}
	return &PcapInjector{handle: handle}, nil
}

func (p *PcapInjector) Inject(frame []byte) error {
	return p.handle.WritePacketData(frame)
}

func (p *PcapInjector) Close() {
	p.handle.Close()
}
