package heap

// goMemory is a growable byte slice. Offsets stay valid across growth.
type goMemory struct {
	buf   []byte
	limit uint32
}

// NewGo returns a heap over Go memory.
func NewGo(opts ...Option) Heap {
	o := buildOptions(opts)
	return newArena(KindGo, &goMemory{limit: o.limit}, o)
}

func (m *goMemory) size() uint32 { return uint32(len(m.buf)) }

func (m *goMemory) grow(n uint32) bool {
	if n > m.limit {
		return false
	}
	size := max(uint32(len(m.buf))*2, 4096, n)
	size = min(size, m.limit)
	next := make([]byte, size)
	copy(next, m.buf)
	m.buf = next
	return true
}

func (m *goMemory) read(off, n uint32) ([]byte, bool) {
	if uint64(off)+uint64(n) > uint64(len(m.buf)) {
		return nil, false
	}
	return m.buf[off : off+n], true
}

func (m *goMemory) write(off uint32, data []byte) bool {
	if uint64(off)+uint64(len(data)) > uint64(len(m.buf)) {
		return false
	}
	copy(m.buf[off:], data)
	return true
}

func (m *goMemory) close() error {
	m.buf = nil
	return nil
}
