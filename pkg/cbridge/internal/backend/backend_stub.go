//go:build !cgo || windows

package backend

// Stub implementations for non-CGO builds or Windows.
// These allow the package to compile but report ErrNotBuilt when called.

func Built() bool { return false }

func Calloc(uintptr) uintptr { return 0 }

func Free(uintptr, uintptr) {}

func CopyOut(uintptr, uintptr) []byte { return nil }

func CopyIn(uintptr, []byte) {}

func Strlen(uintptr) uintptr { return 0 }

func ObjectNew() uintptr { return 0 }

func ObjectFree(uintptr) {}

func ObjectInfo(uintptr) int32 { return 0 }

func ObjectSetInfo(uintptr, int32) {}

func ObjectSize() uintptr { return 0 }

func APIVersion() int { return 0 }

func Pending() int { return 0 }

func SumSquare(int32, int32, func(int32)) (int, error) {
	return 0, ErrNotBuilt
}

func StudentLayout() (StructLayout, error) {
	return StructLayout{}, ErrNotBuilt
}

func TupleLayout() (StructLayout, error) {
	return StructLayout{}, ErrNotBuilt
}

func StudentNew() (uintptr, error) { return 0, ErrNotBuilt }

func StudentAlice() (uintptr, error) { return 0, ErrNotBuilt }

func StudentFree(uintptr) {}

func StudentFill(uintptr) {}

func StudentDescribe(uintptr) string { return "" }

func ReflectTuple(uint32, bool) (uint32, bool) { return 0, false }

func HandleTuple(uint32, bool) (uint32, bool) { return 0, false }
