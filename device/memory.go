package device

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/dyntype/errors"
)

// memory adapts api.Memory to bounds errors.
type memory struct {
	mem api.Memory
}

func (m *memory) size() uint32 {
	return m.mem.Size()
}

// read returns a copy of length bytes at offset.
func (m *memory) read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.bounds("read", offset, length)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// view returns length bytes at offset without copying. The view is
// invalidated by grow.
func (m *memory) view(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.bounds("read", offset, length)
	}
	return data, nil
}

func (m *memory) write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return m.bounds("write", offset, uint32(len(data)))
	}
	return nil
}

func (m *memory) readU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, m.bounds("read", offset, 8)
	}
	return v, nil
}

// grow adds delta pages and reports the previous page count.
func (m *memory) grow(delta uint32) (uint32, bool) {
	return m.mem.Grow(delta)
}

func (m *memory) bounds(op string, offset, length uint32) error {
	return errors.New(errors.PhaseDevice, errors.KindOutOfBounds).
		Value(offset).
		Detail("memory %s out of bounds: offset=%d, length=%d, size=%d", op, offset, length, m.size()).
		Build()
}
