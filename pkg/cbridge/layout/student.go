package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Gender is a C enum; it occupies 4 bytes.
type Gender int32

const (
	Boy Gender = iota
	Girl
)

func (g Gender) String() string {
	switch g {
	case Boy:
		return "boy"
	case Girl:
		return "girl"
	default:
		return fmt.Sprintf("gender(%d)", int32(g))
	}
}

// NameCap is the capacity of the name buffer, terminator included.
const NameCap = 20

// Student is a fixed-shape record shared by reference.
type Student struct {
	Num    int32
	Total  int32
	Name   [NameCap]byte
	Scores [3]float32
	Gender Gender
}

// StudentLayout is the frozen C layout of Student.
var StudentLayout = Calculator{}.Struct(
	Int32.Named("num"),
	Int32.Named("total"),
	Int8.Array("name", NameCap),
	Float32.Array("scores", 3),
	Int32.Named("gender"),
)

// NewStudentRecord builds a record. The name is cut to NameCap-1 bytes so a
// terminator always fits; at most three scores are kept.
func NewStudentRecord(num, total int32, name string, scores []float32) Student {
	s := Student{Num: num, Total: total}
	copy(s.Name[:NameCap-1], name)
	copy(s.Scores[:], scores)
	return s
}

// Alice is the canned record produced by the native side's constructor.
func Alice() Student {
	s := NewStudentRecord(1, 280, "Alice", []float32{92.5, 87.5, 90.0})
	s.Gender = Girl
	return s
}

// NameString returns the name up to its terminator.
func (s Student) NameString() string {
	if i := bytes.IndexByte(s.Name[:], 0); i >= 0 {
		return string(s.Name[:i])
	}
	return string(s.Name[:])
}

// Fill populates s in place. It allocates nothing.
func Fill(s *Student) {
	s.Num = 2
	s.Total = 212
	s.Name = [NameCap]byte{'B', 'o', 'b'}
	s.Scores = [3]float32{60.6, 70.7, 80.8}
	s.Gender = Boy
}

// Describe renders s. It never mutates it.
func Describe(s Student) string {
	return fmt.Sprintf("num=%d total=%d name=%s scores=[%.1f %.1f %.1f] gender=%s",
		s.Num, s.Total, s.NameString(), s.Scores[0], s.Scores[1], s.Scores[2], s.Gender)
}

// MarshalStudent encodes s in StudentLayout.
func MarshalStudent(s Student) []byte {
	b := make([]byte, StudentLayout.Size)
	o := StudentLayout.Offsets
	binary.NativeEndian.PutUint32(b[o[0]:], uint32(s.Num))
	binary.NativeEndian.PutUint32(b[o[1]:], uint32(s.Total))
	copy(b[o[2]:o[2]+NameCap], s.Name[:])
	for i, f := range s.Scores {
		binary.NativeEndian.PutUint32(b[o[3]+uintptr(4*i):], math.Float32bits(f))
	}
	binary.NativeEndian.PutUint32(b[o[4]:], uint32(s.Gender))
	return b
}

// UnmarshalStudent decodes a record encoded in StudentLayout.
func UnmarshalStudent(b []byte) (Student, error) {
	if uintptr(len(b)) != StudentLayout.Size {
		return Student{}, fmt.Errorf("student: got %d bytes, want %d: %w", len(b), StudentLayout.Size, ErrSize)
	}
	o := StudentLayout.Offsets
	var s Student
	s.Num = int32(binary.NativeEndian.Uint32(b[o[0]:]))
	s.Total = int32(binary.NativeEndian.Uint32(b[o[1]:]))
	copy(s.Name[:], b[o[2]:o[2]+NameCap])
	for i := range s.Scores {
		s.Scores[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[o[3]+uintptr(4*i):]))
	}
	s.Gender = Gender(int32(binary.NativeEndian.Uint32(b[o[4]:])))
	return s, nil
}
