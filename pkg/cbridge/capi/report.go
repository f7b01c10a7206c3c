package capi

// Report is what the C harness observed while driving every export from C.
type Report struct {
	APIVersion    int
	ObjectSize    int
	ObjectDefault int
	ObjectInfo    int

	Generated      string
	GeneratedCount int
	Transformed    string
	CountNull      int

	TupleCount uint32
	TupleFlag  bool

	ResultV1        int
	ResultBad       int
	ResultNull      int
	OptionOK        int
	Ratio           float32
	OptionNone      int
	NoPanic         int
	NoPanicPanicked int

	StudentNum   int
	AliceTotal   int
	AliceName    string
	AliceScore   float32
	AliceGender  int
	SumOfEven    int
	SumOfEvenNil int
	Fibonacci    uint32

	CallbackCode  int
	CallbackTotal int
	CallbackCalls int
	CallbackNull  int
}
