// Package injection abstracts the mechanism used to put raw 802.11 frames on
// the air: an AF_PACKET socket on Linux, with libpcap as fallback.
package injection

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PacketInjector injects a fully serialized frame on a monitor-mode
// interface. Implementations are not safe for concurrent use; the engine
// owns the injector exclusively while running.
type PacketInjector interface {
	Inject(frame []byte) error
	Close()
}

// Open selects the best available injection mechanism for iface. Raw socket
// injection is preferred on Linux; anything else falls back to libpcap.
func Open(iface string) (PacketInjector, error) {
	mech, err := NewRawInjector(iface)
	if err == nil {
		logrus.WithField("interface", iface).Debug("using raw socket injection")
		return mech, nil
	}
	logrus.WithField("interface", iface).WithError(err).Debug("raw injection unavailable, falling back to pcap")

	mech, err = NewPcapInjector(iface)
	if err != nil {
		return nil, fmt.Errorf("injection init failed: %w", err)
	}
	return mech, nil
}
