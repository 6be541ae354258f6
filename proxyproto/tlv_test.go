package proxyproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTLV_Format(t *testing.T) {
	tlv := NewTLV(PP2Type(234), []byte("vcpe-abcdefg-hijklmn-opqrst-uvwxyz"))
	require.Equal(t, uint16(34), tlv.Length)
	require.Equal(t,
		[]byte("\xEA\x00\x22vcpe-abcdefg-hijklmn-opqrst-uvwxyz"),
		tlv.Format(),
	)
}

func TestNewNoOpTLV(t *testing.T) {
	tlv := NewNoOpTLV(8)
	require.Equal(t, PP2_TYPE_NOOP, tlv.Type)
	require.Equal(t,
		[]byte("\x04\x00\x08\x00\x00\x00\x00\x00\x00\x00\x00"),
		tlv.Format(),
	)
}

func TestTLVs_String(t *testing.T) {
	tlvs := TLVs{
		NewTLV(PP2Type(234), []byte("vcpe")),
		NewNoOpTLV(2), // registered types are skipped in the display string
	}
	require.Equal(t, `[type:234,length:4,value:"vcpe"]`, tlvs.String())
	require.Equal(t, "", TLVs{}.String())
}

func TestTLV_IsRegistered(t *testing.T) {
	require.True(t, TLV{Type: PP2_TYPE_CRC32C}.IsRegistered())
	require.False(t, TLV{Type: PP2Type(234)}.IsRegistered())
}
