package crc16

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksum(t *testing.T) {
	tables := []struct {
		name string
		in   []byte
		want uint32
	}{
		{"empty", []byte{}, 0x0},
		{"one", []byte{0x01}, 0x021f},
		{"check", []byte("123456789"), 0xe5ec},
	}

	for _, table := range tables {
		table := table
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, Checksum(table.in))
		})
	}
}

func TestUpdateContinues(t *testing.T) {
	in := []byte("123456789")
	assert.Equal(t, Checksum(in), Update(Update(0, in[:4]), in[4:]))
}

func TestDigest(t *testing.T) {
	in := []byte("123456789")

	h := New()
	assert.Equal(t, Size, h.Size())
	assert.Equal(t, 1, h.BlockSize())

	_, _ = h.Write(in[:3])
	_, _ = h.Write(in[3:])
	assert.Equal(t, Checksum(in), h.Sum32())
	assert.Equal(t, []byte{0x00, 0x00, 0xe5, 0xec}, h.Sum(nil))

	h.Reset()
	assert.Equal(t, uint32(0), h.Sum32())
}
