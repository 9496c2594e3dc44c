package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_EqualContentEqualHash(t *testing.T) {
	a := "Concentration"
	b := string([]byte("Concentration"))

	assert.Equal(t, String(a), String(b))
	assert.Equal(t, String(a), Bytes([]byte(a)))
	assert.NotEqual(t, String("Time"), String("time"))
}

func TestCRC32C(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0},
		{"123456789", 0xe3069283},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CRC32C([]byte(tt.in)), tt.in)
	}
}
