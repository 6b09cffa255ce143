//go:build !cgo

package injection

import "fmt"

// NewPcapInjector requires cgo: gopacket/pcap links against libpcap.
func NewPcapInjector(iface string) (PacketInjector, error) {
	return nil, fmt.Errorf("pcap injection requires a cgo-enabled build")
}
