package frame

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddrs(t *testing.T) (src, dst net.HardwareAddr) {
	t.Helper()
	src, err := net.ParseMAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	dst, err = net.ParseMAC(PeerAddress)
	require.NoError(t, err)
	return src, dst
}

func getDot11Layer(t *testing.T, data []byte) *layers.Dot11 {
	t.Helper()
	packet := gopacket.NewPacket(data, layers.LayerTypeRadioTap, gopacket.Default)
	l := packet.Layer(layers.LayerTypeDot11)
	if l == nil {
		t.Fatal("Dot11 layer not found")
	}
	return l.(*layers.Dot11)
}

func TestBuildSkeleton_HeaderFields(t *testing.T) {
	src, dst := testAddrs(t)

	skeleton, err := BuildSkeleton(src, dst, src)
	require.NoError(t, err)

	d11 := getDot11Layer(t, skeleton.Bytes())
	assert.Equal(t, layers.Dot11TypeDataQOSData, d11.Type, "frame type must be QoS data")
	assert.Equal(t, dst.String(), d11.Address1.String(), "Address1 is the synthetic peer")
	assert.Equal(t, src.String(), d11.Address2.String(), "Address2 is the adapter MAC")
	assert.Equal(t, src.String(), d11.Address3.String(), "Address3 (BSSID) is the adapter MAC")
	assert.Equal(t, uint16(0), d11.SequenceNumber)
}

func TestBuildSkeleton_Tail(t *testing.T) {
	src, dst := testAddrs(t)

	skeleton, err := BuildSkeleton(src, dst, src)
	require.NoError(t, err)

	data := skeleton.Bytes()
	// The fixed tail starts right after the sequence-control field.
	tailStart := skeleton.SeqOffset() + 2
	require.Equal(t, len(data), tailStart+len(frameTail))
	assert.True(t, bytes.Equal(data[tailStart:], frameTail), "QoS control and LLC/SNAP tail mismatch")
}

func TestBuildSkeleton_Deterministic(t *testing.T) {
	src, dst := testAddrs(t)

	a, err := BuildSkeleton(src, dst, src)
	require.NoError(t, err)
	b, err := BuildSkeleton(src, dst, src)
	require.NoError(t, err)

	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, a.SeqOffset(), b.SeqOffset())
}

func TestBuildSkeleton_SeqOffsetTracksRadioTapLength(t *testing.T) {
	src, dst := testAddrs(t)

	skeleton, err := BuildSkeleton(src, dst, src)
	require.NoError(t, err)

	rtLen := int(binary.LittleEndian.Uint16(skeleton.Bytes()[2:4]))
	assert.Equal(t, rtLen+22, skeleton.SeqOffset())
	assert.Equal(t, rtLen+dot11HeaderLen+len(frameTail), skeleton.Len())
}

func TestBuildSkeleton_RejectsBadAddresses(t *testing.T) {
	src, dst := testAddrs(t)

	_, err := BuildSkeleton(nil, dst, src)
	assert.Error(t, err)
	_, err = BuildSkeleton(src, net.HardwareAddr{0x02}, src)
	assert.Error(t, err)
}

func TestStampSequence(t *testing.T) {
	src, dst := testAddrs(t)

	skeleton, err := BuildSkeleton(src, dst, src)
	require.NoError(t, err)

	for _, seq := range []uint16{0, 1, 100, 0x0fff} {
		buf := make([]byte, skeleton.Len())
		copy(buf, skeleton.Bytes())
		StampSequence(buf, skeleton.SeqOffset(), seq)

		d11 := getDot11Layer(t, buf)
		assert.Equal(t, seq, d11.SequenceNumber, "stamped sequence must round-trip")
		assert.Equal(t, uint16(0), d11.FragmentNumber)
	}
}
