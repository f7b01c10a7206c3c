package handle

import "unsafe"

// record is the private shape behind an arena handle.
type record struct {
	info int32
}

// poisonInfo is written into destroyed records.
const poisonInfo int32 = -0x22222223 // 0xDDDDDDDD

type arenaStore struct {
	t *table[record]
}

// NewArena returns a Store that keeps records in Go memory.
func NewArena(opts ...Option) Store {
	o := buildOptions(opts)
	return &arenaStore{t: newTable[record]("arena", o.logger)}
}

func (s *arenaStore) Create(info int32) Handle {
	return s.t.insert(record{info: info})
}

func (s *arenaStore) Info(h Handle) int32 {
	var info int32
	s.t.with("inspect", h, func(sl *slot[record]) { info = sl.val.info })
	return info
}

func (s *arenaStore) SetInfo(h Handle, info int32) {
	s.t.with("mutate", h, func(sl *slot[record]) { sl.val.info = info })
}

func (s *arenaStore) Destroy(h Handle) {
	s.t.remove("destroy", h, record{info: poisonInfo})
}

func (s *arenaStore) SizeOf() uintptr { return unsafe.Sizeof(record{}) }

func (s *arenaStore) APIVersion() int { return APIVersion }

func (s *arenaStore) Len() int { return s.t.len() }
