// Package frame builds the reusable 802.11 QoS data frame skeleton and the
// randomized payloads appended to it.
package frame

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// PeerAddress is the fixed synthetic destination every QoS data frame is
// addressed to. Existing deployments key on this value, do not change it.
const PeerAddress = "02:00:00:31:41:59"

// dot11HeaderLen is the 3-address 802.11 header length without QoS control.
const dot11HeaderLen = 24

// frameTail is the fixed portion following the 802.11 header: a zeroed QoS
// control field plus an LLC/SNAP encapsulation header with a null OUI and
// protocol, matching the frames the tool has always emitted.
var frameTail = []byte{
	0x00, 0x00, // QoS control: TID 0, normal ack
	0xaa, 0xaa, 0x03, // LLC: SNAP DSAP/SSAP, UI control
	0x00, 0x00, 0x00, // SNAP OUI
	0x00, 0x00, // SNAP protocol ID
}

// Skeleton is the immutable byte template reused by every transmitted frame.
// It is built exactly once per run and must never be mutated afterwards.
type Skeleton struct {
	data      []byte
	seqOffset int
}

// Bytes returns the template. Callers append payload to a copy, never to the
// returned slice.
func (s *Skeleton) Bytes() []byte { return s.data }

// Len returns the template length in bytes.
func (s *Skeleton) Len() int { return len(s.data) }

// SeqOffset returns the byte offset of the 802.11 sequence-control field,
// for callers that stamp an incrementing sequence number per frame.
func (s *Skeleton) SeqOffset() int { return s.seqOffset }

// BuildSkeleton constructs the QoS data frame template: RadioTap header,
// 802.11 QoS data header addressed src -> dst under bssid, QoS control and
// LLC/SNAP. Pure and deterministic; it never touches the interface.
func BuildSkeleton(src, dst, bssid net.HardwareAddr) (*Skeleton, error) {
	if len(src) != 6 || len(dst) != 6 || len(bssid) != 6 {
		return nil, fmt.Errorf("frame template requires 6-byte MAC addresses")
	}

	// Minimal RadioTap header. Drivers overwrite rate/flags on injection.
	radiotap := &layers.RadioTap{
		Present: layers.RadioTapPresentRate,
		Rate:    5,
	}

	dot11 := &layers.Dot11{
		Type:           layers.Dot11TypeDataQOSData,
		Address1:       dst,
		Address2:       src,
		Address3:       bssid,
		SequenceNumber: 0,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, radiotap, dot11, gopacket.Payload(frameTail)); err != nil {
		return nil, fmt.Errorf("serialize frame skeleton: %w", err)
	}

	data := make([]byte, len(buf.Bytes()))
	copy(data, buf.Bytes())

	// RadioTap length lives in header bytes 2:4; the sequence-control field
	// is the last two bytes of the 24-byte 802.11 header that follows.
	rtLen := int(binary.LittleEndian.Uint16(data[2:4]))

	return &Skeleton{
		data:      data,
		seqOffset: rtLen + dot11HeaderLen - 2,
	}, nil
}

// StampSequence writes seq (12-bit) into the sequence-control field of an
// assembled frame. The fragment number is held at zero.
func StampSequence(frame []byte, offset int, seq uint16) {
	binary.LittleEndian.PutUint16(frame[offset:offset+2], seq<<4)
}
