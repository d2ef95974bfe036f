package vulkan

import (
	"encoding/binary"
	"testing"
)

func TestSpirvWords(t *testing.T) {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:], spirvMagic)
	binary.LittleEndian.PutUint32(data[4:], 0x00010000)
	binary.LittleEndian.PutUint32(data[8:], 42)

	words, err := spirvWords(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 3 || words[0] != spirvMagic || words[2] != 42 {
		t.Errorf("words = %#v", words)
	}
}

func TestSpirvWordsRejectsBadInput(t *testing.T) {
	tests := map[string][]byte{
		"empty":     nil,
		"unaligned": {0x03, 0x02, 0x23, 0x07, 0x00},
		"bad magic": {0xde, 0xad, 0xbe, 0xef},
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := spirvWords(data); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
