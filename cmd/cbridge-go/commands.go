package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/callback"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/handle"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/layout"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/result"
	"github.com/hsiuhsiu/cbridge-go/pkg/cbridge/secp"
)

// withBoundary opens a boundary for the duration of fn.
func withBoundary(g *globals, cmd *cobra.Command, fn func(b *cbridge.Boundary) error) (err error) {
	b, err := g.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(b)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cbridge-go %s (%s)\n", cbridge.WrapperVersion(), cbridge.GitCommit)
			fmt.Fprintf(out, "api version: %d\n", cbridge.APIVersion())
			fmt.Fprintf(out, "native side: %t\n", cbridge.NativeBuilt())
			return nil
		},
	}
}

func newHandleCommand(g *globals) *cobra.Command {
	var info int32
	cmd := &cobra.Command{
		Use:   "handle",
		Short: "Create, mutate, inspect and destroy an opaque handle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoundary(g, cmd, func(b *cbridge.Boundary) error {
				out := cmd.OutOrStdout()
				s := b.Handles()
				h := s.Create(handle.DefaultInfo)
				fmt.Fprintf(out, "created %s, sizeof %d, api version %d\n", h, s.SizeOf(), s.APIVersion())
				fmt.Fprintf(out, "info: %d\n", s.Info(h))
				s.SetInfo(h, info)
				fmt.Fprintf(out, "info after set: %d\n", s.Info(h))
				s.Destroy(h)
				fmt.Fprintf(out, "destroyed, live handles: %d\n", s.Len())
				return nil
			})
		},
	}
	cmd.Flags().Int32Var(&info, "info", 521, "Value written through the mutator")
	return cmd
}

func newStringCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "string [seed]",
		Short: "Generate, consume, transform and release a transferred string",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := "ping"
			if len(args) == 1 {
				seed = args[0]
			}
			return withBoundary(g, cmd, func(b *cbridge.Boundary) error {
				out := cmd.OutOrStdout()
				bridge := b.Strings()
				s, err := bridge.Generate(seed)
				if err != nil {
					return err
				}
				text, err := bridge.Read(s)
				if err != nil {
					bridge.Release(s)
					return err
				}
				fmt.Fprintf(out, "generated: %q (%d chars)\n", text, bridge.Consume(s))

				t, err := bridge.Transform(s)
				if err != nil {
					return err
				}
				defer bridge.Release(t)
				text, err = bridge.Read(t)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "transformed: %q\n", text)
				return nil
			})
		},
	}
}

func newStructCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "struct",
		Short: "Pass a tuple by value and a student record by reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoundary(g, cmd, func(b *cbridge.Boundary) error {
				out := cmd.OutOrStdout()
				in := layout.Tuple{Count: 10, Flag: true}
				fmt.Fprintf(out, "pass by value: %+v -> %+v\n", in, layout.PassByValue(in))
				fmt.Fprintf(out, "handle tuple:  %+v -> %+v\n", in, layout.HandleTuple(in))

				h := b.Heap()
				alice, err := layout.NewAlice(h)
				if err != nil {
					return err
				}
				defer layout.FreeStudent(h, alice)
				desc, err := layout.DescribeAt(h, alice)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "alice: %s\n", desc)

				stu, err := layout.NewStudent(h)
				if err != nil {
					return err
				}
				defer layout.FreeStudent(h, stu)
				if err := layout.FillAt(h, stu); err != nil {
					return err
				}
				desc, err = layout.DescribeAt(h, stu)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "filled: %s\n", desc)
				fmt.Fprintf(out, "sum of even [1..6]: %d\n", layout.SumOfEven([]int32{1, 2, 3, 4, 5, 6}))
				fmt.Fprintf(out, "fibonacci(20): %d\n", layout.Fibonacci(20))
				return nil
			})
		},
	}
}

func newResultCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "result",
		Short: "Show sentinel encodings of results and options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBoundary(g, cmd, func(b *cbridge.Boundary) error {
				out := cmd.OutOrStdout()
				for _, d := range [][2]float32{{2, 3}, {2, 0}} {
					var ratio float32
					code := result.HandleOption(d[0], d[1], &ratio)
					fmt.Fprintf(out, "divide %g/%g: code %d %s\n", d[0], d[1], code, decoded(result.DecodeOption(code, ratio)))
				}
				for _, header := range []string{"v1", "v2", "", "v3"} {
					_, err := result.ParseVersion(header).Unwrap()
					fmt.Fprintf(out, "parse %q: code %d err=%v\n", header, result.HandleResult(&header), err)
				}
				fmt.Fprintf(out, "parse NULL: code %d\n", result.HandleResult(nil))
				fmt.Fprintf(out, "checked sum [max, 2, 3]: some=%t\n", result.SumChecked([]int32{2147483647, 2, 3}).IsSome())
				fmt.Fprintf(out, "no panic: %d\n", b.Guard().NoPanic(func() {}))
				fmt.Fprintf(out, "panic stopped: %d\n", b.Guard().NoPanic(func() { panic("panic happens") }))
				return nil
			})
		},
	}
}

func decoded(o result.Option[float32]) string {
	if v, ok := o.Get(); ok {
		return "some(" + strconv.FormatFloat(float64(v), 'g', -1, 32) + ")"
	}
	return "none"
}

func newCallbackCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "callback [a b]",
		Short: "Invoke a callback with user context through the sum-of-squares driver",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := int32(3), int32(4)
			if len(args) == 2 {
				x, err := strconv.ParseInt(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("parse a: %w", err)
				}
				y, err := strconv.ParseInt(args[1], 10, 32)
				if err != nil {
					return fmt.Errorf("parse b: %w", err)
				}
				a, b = int32(x), int32(y)
			} else if len(args) == 1 {
				return fmt.Errorf("callback needs both a and b")
			}
			return withBoundary(g, cmd, func(bd *cbridge.Boundary) error {
				var rec callback.Recorder
				cb, ctx := callback.Closure(rec.Add)
				if err := bd.Invoker().Invoke(a, b, cb, ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sum_square(%d, %d) -> total=%d calls=%d\n", a, b, rec.Total, rec.Calls)
				return nil
			})
		},
	}
}

const demoKey = "9a9a6539856be209b8ea2adbd155c0919646d108515b60b7b13d6a79f1ae5174"

func newSecpCommand(g *globals) *cobra.Command {
	var keyHex string
	cmd := &cobra.Command{
		Use:   "secp",
		Short: "Derive a public key inside a scoped secp256k1 context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := secp.DecodeHexKey(keyHex)
			if err != nil {
				return err
			}
			defer cbridge.ZeroizeBytes(priv)

			return withBoundary(g, cmd, func(b *cbridge.Boundary) error {
				ctx, err := b.Secp(secp.ContextSign)
				if err != nil {
					return err
				}
				defer ctx.Close()

				pub, err := ctx.PublicKey(priv)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "compressed:   %s\n", hex.EncodeToString(pub.Compressed()))
				fmt.Fprintf(out, "uncompressed: %s\n", hex.EncodeToString(pub.Uncompressed()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&keyHex, "key", demoKey, "Private key as 64 hex digits")
	return cmd
}

func newLayoutCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print computed C layouts and check them against the C compiler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			examples := []struct {
				name string
				l    layout.Layout
			}{
				{"{i8, i16, i8}", layout.Calculator{}.Struct(layout.Int8, layout.Int16, layout.Int8)},
				{"packed {i8, i16, i8}", layout.Calculator{Packed: true}.Struct(layout.Int8, layout.Int16, layout.Int8)},
				{"align(4) {i8, i16, i8}", layout.Calculator{MinAlign: 4}.Struct(layout.Int8, layout.Int16, layout.Int8)},
				{"{i16, i8, i8}", layout.Calculator{}.Struct(layout.Int16, layout.Int8, layout.Int8)},
				{"union {i8, i16}", layout.Calculator{}.Union(layout.Int8, layout.Int16)},
				{"tuple", layout.TupleLayout},
				{"student", layout.StudentLayout},
			}
			for _, e := range examples {
				fmt.Fprintf(out, "%-24s size=%-3d align=%d offsets=%v\n", e.name, e.l.Size, e.l.Align, e.l.Offsets)
			}
			err := layout.Verify()
			switch {
			case err == nil:
				fmt.Fprintln(out, "C compiler agrees")
			case errors.Is(err, layout.ErrNotBuilt):
				fmt.Fprintln(out, "C compiler check skipped: native side not built")
			default:
				return err
			}
			return nil
		},
	}
}
