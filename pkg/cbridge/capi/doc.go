// Package capi exposes the boundary components as a C ABI.
//
// Linking this package into a binary built with -buildmode=c-shared or
// -buildmode=c-archive makes the cbridge_* functions callable from C. Every
// export defers the boundary guard as its first statement, so a Go panic is
// either turned into the documented sentinel or aborts the process with a
// diagnostic; it never unwinds into C frames.
//
// Ownership follows the Go side: strings returned by cbridge_generate and
// cbridge_transform are released with cbridge_free_str, objects with
// cbridge_object_free and students with cbridge_student_free. Memory comes
// from the native heap, so C reads it directly.
//
// Sentinels: cbridge_count_char, cbridge_handle_result, cbridge_handle_option,
// cbridge_no_panic and cbridge_sum_square_cb return -1 on failure.
// cbridge_sum_of_even returns -1 for a NULL array, a value no sum of even
// numbers can take. Pointer-returning functions return NULL.
package capi
