package backend

import (
	"bytes"
	"errors"
	"testing"
)

func requireBuilt(t *testing.T) {
	t.Helper()
	if !Built() {
		t.Skip("native side not built (cgo disabled)")
	}
}

func TestStubReportsNotBuilt(t *testing.T) {
	if Built() {
		t.Skip("native side is built")
	}
	if _, err := SumSquare(3, 4, func(int32) {}); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("SumSquare error = %v, want ErrNotBuilt", err)
	}
	if _, err := StudentLayout(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("StudentLayout error = %v, want ErrNotBuilt", err)
	}
}

func TestObjectLifecycle(t *testing.T) {
	requireBuilt(t)

	obj := ObjectNew()
	if obj == 0 {
		t.Fatal("ObjectNew returned NULL")
	}
	defer ObjectFree(obj)

	if got := ObjectInfo(obj); got != 0 {
		t.Errorf("initial info = %d, want 0", got)
	}
	ObjectSetInfo(obj, 521)
	if got := ObjectInfo(obj); got != 521 {
		t.Errorf("info after set = %d, want 521", got)
	}
	if got := ObjectSize(); got != 4 {
		t.Errorf("ObjectSize = %d, want 4", got)
	}
	if got := APIVersion(); got != 0 {
		t.Errorf("APIVersion = %d, want 0", got)
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	requireBuilt(t)

	p := Calloc(6)
	if p == 0 {
		t.Fatal("Calloc returned NULL")
	}
	defer Free(p, 6)

	if got := CopyOut(p, 6); !bytes.Equal(got, make([]byte, 6)) {
		t.Fatalf("calloc memory not zeroed: %v", got)
	}
	CopyIn(p, []byte("hello\x00"))
	if got := Strlen(p); got != 5 {
		t.Errorf("Strlen = %d, want 5", got)
	}
	if got := CopyOut(p, 5); string(got) != "hello" {
		t.Errorf("CopyOut = %q, want hello", got)
	}
}

func TestSumSquareInvokesOnce(t *testing.T) {
	requireBuilt(t)

	var got []int32
	calls, err := SumSquare(3, 4, func(result int32) { got = append(got, result) })
	if err != nil {
		t.Fatalf("SumSquare: %v", err)
	}
	if calls != 1 || len(got) != 1 || got[0] != 25 {
		t.Fatalf("calls=%d results=%v, want one call with 25", calls, got)
	}
	if n := Pending(); n != 0 {
		t.Errorf("Pending = %d after return, want 0", n)
	}
}

func TestSumSquareStopsPanicAtBoundary(t *testing.T) {
	requireBuilt(t)

	calls, err := SumSquare(1, 2, func(int32) { panic("callback failed") })
	var cp *CallbackPanic
	if !errors.As(err, &cp) {
		t.Fatalf("error = %v, want *CallbackPanic", err)
	}
	if cp.Value != "callback failed" || calls != 1 {
		t.Errorf("panic value=%v calls=%d", cp.Value, calls)
	}
}

func TestStudentLayoutMatchesC(t *testing.T) {
	requireBuilt(t)

	l, err := StudentLayout()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]uintptr{"num": 0, "total": 4, "name": 8, "scores": 28, "gender": 40}
	for field, off := range want {
		if l.Offsets[field] != off {
			t.Errorf("offsetof(%s) = %d, want %d", field, l.Offsets[field], off)
		}
	}
	if l.Size != 44 || l.Align != 4 {
		t.Errorf("size=%d align=%d, want 44/4", l.Size, l.Align)
	}
}

func TestStudentFillAndDescribe(t *testing.T) {
	requireBuilt(t)

	alice, err := StudentAlice()
	if err != nil {
		t.Fatal(err)
	}
	defer StudentFree(alice)
	if got, want := StudentDescribe(alice), "num=1 total=280 name=Alice scores=[92.5 87.5 90.0] gender=girl"; got != want {
		t.Errorf("describe alice = %q, want %q", got, want)
	}

	stu, err := StudentNew()
	if err != nil {
		t.Fatal(err)
	}
	defer StudentFree(stu)
	StudentFill(stu)
	if got, want := StudentDescribe(stu), "num=2 total=212 name=Bob scores=[60.6 70.7 80.8] gender=boy"; got != want {
		t.Errorf("describe filled = %q, want %q", got, want)
	}
}

func TestTupleByValue(t *testing.T) {
	requireBuilt(t)

	if n, b := ReflectTuple(10, true); n != 10 || !b {
		t.Errorf("ReflectTuple = (%d, %v), want (10, true)", n, b)
	}
	if n, b := HandleTuple(10, true); n != 11 || b {
		t.Errorf("HandleTuple = (%d, %v), want (11, false)", n, b)
	}
	l, err := TupleLayout()
	if err != nil {
		t.Fatal(err)
	}
	if l.Size != 8 || l.Offsets["boolean"] != 4 {
		t.Errorf("tuple layout = %+v", l)
	}
}
