//go:build cgo && !windows

package backend

/*
#include <stdlib.h>

struct native_object {
	int info;
};

static size_t native_sizeof_obj(void) {
	return sizeof(struct native_object);
}

static struct native_object* native_object_init(void) {
	struct native_object* obj = (struct native_object*)malloc(native_sizeof_obj());
	if (obj == NULL) {
		return NULL;
	}
	obj->info = 0;
	return obj;
}

static void native_object_free(struct native_object* obj) {
	free(obj);
}

static int native_api_version(void) {
	return 0;
}

static int native_get_info(const struct native_object* obj) {
	return obj->info;
}

static void native_set_info(struct native_object* obj, int arg) {
	obj->info = arg;
}
*/
import "C"

import "unsafe"

func object(p uintptr) *C.struct_native_object {
	return (*C.struct_native_object)(unsafe.Pointer(p))
}

// ObjectNew allocates a C object with info 0. It returns 0 on exhaustion.
func ObjectNew() uintptr {
	return uintptr(unsafe.Pointer(C.native_object_init()))
}

// ObjectFree releases a C object.
func ObjectFree(p uintptr) {
	if p == 0 {
		return
	}
	C.native_object_free(object(p))
}

// ObjectInfo reads the info field.
func ObjectInfo(p uintptr) int32 {
	return int32(C.native_get_info(object(p)))
}

// ObjectSetInfo writes the info field.
func ObjectSetInfo(p uintptr, info int32) {
	C.native_set_info(object(p), C.int(info))
}

// ObjectSize returns sizeof(struct native_object).
func ObjectSize() uintptr {
	return uintptr(C.native_sizeof_obj())
}

// APIVersion returns the version of the native object API.
func APIVersion() int {
	return int(C.native_api_version())
}
