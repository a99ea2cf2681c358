package byteutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomBytes(t *testing.T) {
	require.Len(t, RandomBytes(0), 0)
	require.Len(t, RandomBytes(17), 17)
}

func TestBigEndian(t *testing.T) {
	tests := []struct {
		x    uint64
		want []byte
	}{
		{0, []byte{}},
		{1, []byte{0x01}},
		{255, []byte{0xff}},
		{256, []byte{0x01, 0x00}},
		{65535, []byte{0xff, 0xff}},
		{65536, []byte{0x01, 0x00, 0x00}},
		{1<<32 - 1, []byte{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.x), func(t *testing.T) {
			n := LenBigEndian(tt.x)
			require.Equal(t, len(tt.want), n)

			buf := make([]byte, n)
			PutBigEndian(buf, tt.x, n)
			require.Equal(t, tt.want, buf)
			require.Equal(t, tt.x, BigEndian(buf))
		})
	}
}
