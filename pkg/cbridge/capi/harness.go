//go:build cgo && !windows

package capi

/*
#include <string.h>
#include "cbridge.h"

extern int cbridge_api_version(void);
extern uint64_t cbridge_object_new(void);
extern void cbridge_object_free(uint64_t h);
extern int cbridge_object_get_info(uint64_t h);
extern void cbridge_object_set_info(uint64_t h, int info);
extern size_t cbridge_object_sizeof(void);
extern char *cbridge_generate(char *seed);
extern void cbridge_free_str(char *s);
extern int cbridge_count_char(char *s);
extern char *cbridge_transform(char *s);
extern cbridge_tuple cbridge_handle_tuple(cbridge_tuple tup);
extern int cbridge_handle_result(char *s);
extern int cbridge_handle_option(float x, float y, float *out);
extern int cbridge_no_panic(int should_panic);
extern cbridge_student *cbridge_student_new(void);
extern cbridge_student *cbridge_student_alice(void);
extern void cbridge_student_free(cbridge_student *stu);
extern int cbridge_sum_of_even(int *xs, size_t n);
extern unsigned int cbridge_fibonacci(unsigned int index);
extern int cbridge_sum_square_cb(int a, int b, cbridge_sum_square_fn cb, void *user_data);

void capi_invoke_cb(cbridge_sum_square_fn cb, int result, void *user_data) {
	cb(result, user_data);
}

typedef struct capi_record {
	int total;
	int calls;
} capi_record;

static void capi_record_cb(int result, void *user_data) {
	capi_record *rec = (capi_record *)user_data;
	rec->total += result;
	rec->calls++;
}

typedef struct capi_report {
	int api_version;
	int object_size;
	int object_default;
	int object_info;

	char generated[32];
	int generated_count;
	char transformed[32];
	int count_null;

	unsigned int tuple_integer;
	int tuple_boolean;

	int result_v1;
	int result_bad;
	int result_null;
	int option_ok;
	float ratio;
	int option_none;
	int no_panic;
	int no_panic_panicked;

	int student_num;
	int alice_total;
	char alice_name[20];
	float alice_score;
	int alice_gender;

	int sum_of_even;
	int sum_of_even_null;
	unsigned int fibonacci;

	int callback_code;
	int callback_total;
	int callback_calls;
	int callback_null;
} capi_report;

static void capi_copy(char *dst, size_t n, const char *src) {
	if (src == NULL) {
		dst[0] = '\0';
		return;
	}
	strncpy(dst, src, n - 1);
	dst[n - 1] = '\0';
}

static void capi_run_harness(capi_report *r) {
	r->api_version = cbridge_api_version();
	r->object_size = (int)cbridge_object_sizeof();
	uint64_t obj = cbridge_object_new();
	r->object_default = cbridge_object_get_info(obj);
	cbridge_object_set_info(obj, 521);
	r->object_info = cbridge_object_get_info(obj);
	cbridge_object_free(obj);

	char seed[] = "ping";
	char *pong = cbridge_generate(seed);
	capi_copy(r->generated, sizeof(r->generated), pong);
	r->generated_count = cbridge_count_char(pong);
	char *upper = cbridge_transform(pong);
	pong = NULL;
	capi_copy(r->transformed, sizeof(r->transformed), upper);
	cbridge_free_str(upper);
	cbridge_free_str(NULL);
	r->count_null = cbridge_count_char(NULL);

	cbridge_tuple tup = {10, 1};
	cbridge_tuple out = cbridge_handle_tuple(tup);
	r->tuple_integer = out.integer;
	r->tuple_boolean = out.boolean ? 1 : 0;

	char v1[] = "v1";
	char bad[] = "v9";
	r->result_v1 = cbridge_handle_result(v1);
	r->result_bad = cbridge_handle_result(bad);
	r->result_null = cbridge_handle_result(NULL);
	r->ratio = 0.0f;
	r->option_ok = cbridge_handle_option(2.0f, 3.0f, &r->ratio);
	r->option_none = cbridge_handle_option(2.0f, 0.0f, NULL);
	r->no_panic = cbridge_no_panic(0);
	r->no_panic_panicked = cbridge_no_panic(1);

	cbridge_student *stu = cbridge_student_new();
	r->student_num = stu->num;
	cbridge_student_free(stu);
	cbridge_student *alice = cbridge_student_alice();
	r->alice_total = alice->total;
	capi_copy(r->alice_name, sizeof(r->alice_name), alice->name);
	r->alice_score = alice->scores[1];
	r->alice_gender = alice->gender;
	cbridge_student_free(alice);
	cbridge_student_free(NULL);

	int xs[] = {1, 2, 3, 4, 5, 6};
	r->sum_of_even = cbridge_sum_of_even(xs, sizeof(xs) / sizeof(xs[0]));
	r->sum_of_even_null = cbridge_sum_of_even(NULL, 0);
	r->fibonacci = cbridge_fibonacci(20);

	capi_record rec = {0, 0};
	r->callback_code = cbridge_sum_square_cb(1, 2, capi_record_cb, &rec);
	cbridge_sum_square_cb(3, 4, capi_record_cb, &rec);
	r->callback_total = rec.total;
	r->callback_calls = rec.calls;
	r->callback_null = cbridge_sum_square_cb(3, 4, NULL, &rec);
}
*/
import "C"

// RunHarness drives every export from C code, the way a C caller would, and
// reports what C saw.
func RunHarness() (Report, error) {
	var r C.capi_report
	C.capi_run_harness(&r)
	return Report{
		APIVersion:      int(r.api_version),
		ObjectSize:      int(r.object_size),
		ObjectDefault:   int(r.object_default),
		ObjectInfo:      int(r.object_info),
		Generated:       C.GoString(&r.generated[0]),
		GeneratedCount:  int(r.generated_count),
		Transformed:     C.GoString(&r.transformed[0]),
		CountNull:       int(r.count_null),
		TupleCount:      uint32(r.tuple_integer),
		TupleFlag:       r.tuple_boolean != 0,
		ResultV1:        int(r.result_v1),
		ResultBad:       int(r.result_bad),
		ResultNull:      int(r.result_null),
		OptionOK:        int(r.option_ok),
		Ratio:           float32(r.ratio),
		OptionNone:      int(r.option_none),
		NoPanic:         int(r.no_panic),
		NoPanicPanicked: int(r.no_panic_panicked),
		StudentNum:      int(r.student_num),
		AliceTotal:      int(r.alice_total),
		AliceName:       C.GoString(&r.alice_name[0]),
		AliceScore:      float32(r.alice_score),
		AliceGender:     int(r.alice_gender),
		SumOfEven:       int(r.sum_of_even),
		SumOfEvenNil:    int(r.sum_of_even_null),
		Fibonacci:       uint32(r.fibonacci),
		CallbackCode:    int(r.callback_code),
		CallbackTotal:   int(r.callback_total),
		CallbackCalls:   int(r.callback_calls),
		CallbackNull:    int(r.callback_null),
	}, nil
}
