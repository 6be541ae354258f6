package proxyproto

import (
	"fmt"
	"strings"
)

// PP2Type type of proxy protocol version 2
type PP2Type byte

// The following types have already been registered for the <type> field:
const (
	PP2_TYPE_ALPN           PP2Type = 0x01
	PP2_TYPE_AUTHORITY      PP2Type = 0x02
	PP2_TYPE_CRC32C         PP2Type = 0x03
	PP2_TYPE_NOOP           PP2Type = 0x04
	PP2_TYPE_UNIQUE_ID      PP2Type = 0x05
	PP2_TYPE_SSL            PP2Type = 0x20
	PP2_SUBTYPE_SSL_VERSION PP2Type = 0x21
	PP2_SUBTYPE_SSL_CN      PP2Type = 0x22
	PP2_SUBTYPE_SSL_CIPHER  PP2Type = 0x23
	PP2_SUBTYPE_SSL_SIG_ALG PP2Type = 0x24
	PP2_SUBTYPE_SSL_KEY_ALG PP2Type = 0x25
	PP2_TYPE_NETNS          PP2Type = 0x30
)

// TLV a Type-Length-Value group
type TLV struct {
	Type   PP2Type
	Length uint16
	Value  []byte
}

// TLVs TLV groups
type TLVs []TLV

// NewTLV builds a TLV with Length set from len(value).
func NewTLV(t PP2Type, value []byte) TLV {
	return TLV{Type: t, Length: uint16(len(value)), Value: value}
}

// NewNoOpTLV builds a PP2_TYPE_NOOP TLV carrying n zero bytes, used by the
// v2 formatter to pad a header so observers can't infer payload boundaries
// from a fixed length.
func NewNoOpTLV(n int) TLV {
	return NewTLV(PP2_TYPE_NOOP, make([]byte, n))
}

// Format serializes the TLV to its wire form: 1 byte type, 2 bytes
// big-endian length, then the value.
func (tlv TLV) Format() []byte {
	data := make([]byte, 0, 3+len(tlv.Value))
	data = append(data, byte(tlv.Type))
	data = append(data, byte(tlv.Length>>8), byte(tlv.Length))
	data = append(data, tlv.Value...)
	return data
}

// IsRegistered true if type have already been registered
func (tlv TLV) IsRegistered() bool {
	switch tlv.Type {
	case PP2_TYPE_ALPN,
		PP2_TYPE_AUTHORITY,
		PP2_TYPE_CRC32C,
		PP2_TYPE_NOOP,
		PP2_TYPE_UNIQUE_ID,
		PP2_TYPE_SSL,
		PP2_SUBTYPE_SSL_VERSION,
		PP2_SUBTYPE_SSL_CN,
		PP2_SUBTYPE_SSL_CIPHER,
		PP2_SUBTYPE_SSL_SIG_ALG,
		PP2_SUBTYPE_SSL_KEY_ALG,
		PP2_TYPE_NETNS:

		return true
	}
	return false
}

func (tlv TLV) String() string {
	return fmt.Sprintf("[type:%d,length:%d,value:%q]", tlv.Type, tlv.Length, tlv.Value)
}

func (s TLVs) String() string {
	if len(s) == 0 {
		return ""
	}

	var fields []string
	for _, tlv := range s {
		// skip display
		if tlv.IsRegistered() {
			continue
		}
		fields = append(fields, tlv.String())
	}
	return strings.Join(fields, ",")
}
