package resources

import (
	"encoding/binary"
	"testing"
)

func TestGetIcon(t *testing.T) {
	data, err := GetIcon()
	if err != nil {
		t.Fatalf("GetIcon: %v", err)
	}
	if len(data) < 6 || binary.LittleEndian.Uint16(data[2:4]) != 1 || binary.LittleEndian.Uint16(data[4:6]) == 0 {
		t.Fatal("embedded icon is not an ICO file")
	}
}
