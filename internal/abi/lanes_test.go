package abi

import (
	"testing"

	"github.com/wippyai/dyntype/errors"
)

func TestLaneRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		width int
		value uint64
		bytes []byte
	}{
		{"u8", 1, 0xAB, []byte{0xAB}},
		{"u16", 2, 0x1234, []byte{0x34, 0x12}},
		{"u32", 4, 0xDEADBEEF, []byte{0xEF, 0xBE, 0xAD, 0xDE}},
		{"u64", 8, 42, []byte{42, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.width)
			PutLane(buf, tt.width, tt.value)
			for i, b := range tt.bytes {
				if buf[i] != b {
					t.Fatalf("byte %d = 0x%x, want 0x%x", i, buf[i], b)
				}
			}
			if got := Lane(buf, tt.width); got != tt.value {
				t.Errorf("Lane = 0x%x, want 0x%x", got, tt.value)
			}
		})
	}
}

func TestPutLane_Truncates(t *testing.T) {
	buf := make([]byte, 2)
	PutLane(buf, 1, 0x1FF)
	if buf[0] != 0xFF || buf[1] != 0 {
		t.Errorf("PutLane wrote %v", buf)
	}
}

func TestLane_InvalidWidth(t *testing.T) {
	tests := []struct {
		name  string
		phase errors.Phase
		fn    func()
	}{
		{"put", errors.PhaseStore, func() { PutLane(make([]byte, 4), 3, 1) }},
		{"get", errors.PhaseLoad, func() { Lane(make([]byte, 4), 0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				e, ok := errors.IsViolation(recover())
				if !ok {
					t.Fatal("expected contract violation")
				}
				if e.Phase != tt.phase || e.Kind != errors.KindContract {
					t.Errorf("got %s/%s, want %s/contract", e.Phase, e.Kind, tt.phase)
				}
			}()
			tt.fn()
		})
	}
}

func TestSignExtend(t *testing.T) {
	tests := []struct {
		v     uint64
		width int
		want  int64
	}{
		{0xFF, 1, -1},
		{0x7F, 1, 127},
		{0xFFFE, 2, -2},
		{0xFFFFFFD6, 4, -42},
		{42, 4, 42},
		{0xFFFFFFFFFFFFFFFF, 8, -1},
	}
	for _, tt := range tests {
		if got := SignExtend(tt.v, tt.width); got != tt.want {
			t.Errorf("SignExtend(0x%x, %d) = %d, want %d", tt.v, tt.width, got, tt.want)
		}
	}
}
