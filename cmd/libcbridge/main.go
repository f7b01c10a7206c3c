// Command libcbridge builds the cbridge C ABI as a shared library or archive:
//
//	go build -buildmode=c-shared -o libcbridge.so ./cmd/libcbridge
//
// Setting CBRIDGE_LOG_LEVEL (debug, info, warn, error) in the host process
// environment routes boundary diagnostics to stderr. CBRIDGE_DEBUG=1 also
// checks struct layouts against the C compiler at load time.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/capi"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/heap"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/logging"
)

func init() {
	level, ok := os.LookupEnv("CBRIDGE_LOG_LEVEL")
	if !ok {
		return
	}
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
		lv = slog.LevelWarn
	}
	logger := logging.New(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv})))

	b, err := cbridge.Open(context.Background(), cbridge.Config{
		Heap:   heap.KindNative,
		Debug:  os.Getenv("CBRIDGE_DEBUG") == "1",
		Logger: logger,
	})
	if err != nil {
		logger.Error(context.Background(), "cbridge: open boundary", "error", err)
		return
	}
	capi.Install(b)
}

func main() {}
