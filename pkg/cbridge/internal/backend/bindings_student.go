//go:build cgo && !windows

package backend

/*
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

typedef enum {
	NATIVE_BOY = 0,
	NATIVE_GIRL = 1,
} native_gender;

typedef struct native_student {
	int num;
	int total;
	char name[20];
	float scores[3];
	native_gender gender;
} native_student;

typedef struct native_tuple {
	unsigned int integer;
	_Bool boolean;
} native_tuple;

static native_student* native_student_new(void) {
	return (native_student*)calloc(1, sizeof(native_student));
}

static native_student* native_student_alice(void) {
	native_student* stu = native_student_new();
	if (stu == NULL) {
		return NULL;
	}
	stu->num = 1;
	stu->total = 280;
	strncpy(stu->name, "Alice", sizeof(stu->name) - 1);
	stu->scores[0] = 92.5f;
	stu->scores[1] = 87.5f;
	stu->scores[2] = 90.0f;
	stu->gender = NATIVE_GIRL;
	return stu;
}

static void native_student_free(native_student* stu) {
	free(stu);
}

static void native_fill_data(native_student* stu) {
	stu->num = 2;
	stu->total = 212;
	memset(stu->name, 0, sizeof(stu->name));
	strcpy(stu->name, "Bob");
	stu->scores[0] = 60.6f;
	stu->scores[1] = 70.7f;
	stu->scores[2] = 80.8f;
	stu->gender = NATIVE_BOY;
}

static int native_describe(const native_student* stu, char* buf, size_t n) {
	return snprintf(buf, n, "num=%d total=%d name=%.*s scores=[%.1f %.1f %.1f] gender=%s",
		stu->num, stu->total, (int)sizeof(stu->name), stu->name,
		stu->scores[0], stu->scores[1], stu->scores[2],
		stu->gender == NATIVE_GIRL ? "girl" : "boy");
}

static native_tuple native_reflect_tuple(native_tuple tup) {
	return tup;
}

static native_tuple native_handle_tuple(native_tuple tup) {
	native_tuple out;
	out.integer = tup.integer + 1;
	out.boolean = !tup.boolean;
	return out;
}
*/
import "C"

import "unsafe"

const describeBufSize = 160

func student(p uintptr) *C.native_student {
	return (*C.native_student)(unsafe.Pointer(p))
}

// StudentLayout reports the C compiler's layout of native_student.
func StudentLayout() (StructLayout, error) {
	var s C.native_student
	return StructLayout{
		Size:  uintptr(C.sizeof_native_student),
		Align: unsafe.Alignof(s),
		Offsets: map[string]uintptr{
			"num":    unsafe.Offsetof(s.num),
			"total":  unsafe.Offsetof(s.total),
			"name":   unsafe.Offsetof(s.name),
			"scores": unsafe.Offsetof(s.scores),
			"gender": unsafe.Offsetof(s.gender),
		},
	}, nil
}

// TupleLayout reports the C compiler's layout of native_tuple.
func TupleLayout() (StructLayout, error) {
	var t C.native_tuple
	return StructLayout{
		Size:  uintptr(C.sizeof_native_tuple),
		Align: unsafe.Alignof(t),
		Offsets: map[string]uintptr{
			"integer": unsafe.Offsetof(t.integer),
			"boolean": unsafe.Offsetof(t.boolean),
		},
	}, nil
}

// StudentNew allocates a zeroed student in C memory.
func StudentNew() (uintptr, error) {
	p := uintptr(unsafe.Pointer(C.native_student_new()))
	if p == 0 {
		return 0, ErrAlloc
	}
	return p, nil
}

// StudentAlice allocates the canned "Alice" record in C memory.
func StudentAlice() (uintptr, error) {
	p := uintptr(unsafe.Pointer(C.native_student_alice()))
	if p == 0 {
		return 0, ErrAlloc
	}
	return p, nil
}

// StudentFree releases a student allocated by StudentNew or StudentAlice.
func StudentFree(p uintptr) {
	if p == 0 {
		return
	}
	C.native_student_free(student(p))
}

// StudentFill populates the record at p in place. The caller keeps ownership
// of the storage, which may come from any C allocation of the right size.
func StudentFill(p uintptr) {
	C.native_fill_data(student(p))
}

// StudentDescribe renders the record at p. C writes into a bounded buffer
// that is copied before returning, so nothing refers to it afterwards.
func StudentDescribe(p uintptr) string {
	var buf [describeBufSize]C.char
	if n := C.native_describe(student(p), &buf[0], C.size_t(len(buf))); n < 0 {
		return ""
	}
	return C.GoString(&buf[0])
}

func tuple(count uint32, flag bool) C.native_tuple {
	t := C.native_tuple{integer: C.uint(count)}
	if flag {
		t.boolean = true
	}
	return t
}

// ReflectTuple passes a tuple by value through C and back.
func ReflectTuple(count uint32, flag bool) (uint32, bool) {
	out := C.native_reflect_tuple(tuple(count, flag))
	return uint32(out.integer), bool(out.boolean)
}

// HandleTuple applies the C side's documented transformation
// {integer + 1, !boolean} to a tuple passed by value.
func HandleTuple(count uint32, flag bool) (uint32, bool) {
	out := C.native_handle_tuple(tuple(count, flag))
	return uint32(out.integer), bool(out.boolean)
}
