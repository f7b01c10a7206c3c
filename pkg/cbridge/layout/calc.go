package layout

// Field describes one member of an aggregate.
type Field struct {
	Name  string
	Size  uintptr
	Align uintptr
}

// Scalar field descriptors.
var (
	Int8    = Field{Size: 1, Align: 1}
	Int16   = Field{Size: 2, Align: 2}
	Int32   = Field{Size: 4, Align: 4}
	Uint32  = Field{Size: 4, Align: 4}
	Float32 = Field{Size: 4, Align: 4}
	Bool    = Field{Size: 1, Align: 1}
)

// Named returns f with a name.
func (f Field) Named(name string) Field {
	f.Name = name
	return f
}

// Array returns a field holding n consecutive elements of f.
func (f Field) Array(name string, n uintptr) Field {
	return Field{Name: name, Size: f.Size * n, Align: f.Align}
}

// Layout is a computed aggregate layout.
type Layout struct {
	Size    uintptr
	Align   uintptr
	Fields  []Field
	Offsets []uintptr
}

// Offset returns the offset of the named field.
func (l Layout) Offset(name string) (uintptr, bool) {
	for i, f := range l.Fields {
		if f.Name == name {
			return l.Offsets[i], true
		}
	}
	return 0, false
}

// Padding returns the number of bytes not covered by any field.
func (l Layout) Padding() uintptr {
	used := uintptr(0)
	for _, f := range l.Fields {
		used += f.Size
	}
	if used > l.Size {
		// union
		return 0
	}
	return l.Size - used
}

// Calculator computes C layouts. The zero value gives the default C rules.
type Calculator struct {
	// Packed places every field at alignment 1.
	Packed bool
	// MinAlign raises the alignment of the aggregate, like an explicit
	// alignment attribute. Zero leaves it unchanged.
	MinAlign uintptr
}

func (c Calculator) fieldAlign(f Field) uintptr {
	if c.Packed || f.Align == 0 {
		return 1
	}
	return f.Align
}

func (c Calculator) finish(l Layout, end uintptr) Layout {
	l.Align = max(l.Align, c.MinAlign, 1)
	l.Size = alignUp(end, l.Align)
	return l
}

// Struct lays fields out in declaration order.
func (c Calculator) Struct(fields ...Field) Layout {
	l := Layout{Fields: fields, Offsets: make([]uintptr, len(fields))}
	off := uintptr(0)
	for i, f := range fields {
		a := c.fieldAlign(f)
		off = alignUp(off, a)
		l.Offsets[i] = off
		off += f.Size
		l.Align = max(l.Align, a)
	}
	return c.finish(l, off)
}

// Union overlays fields at offset 0.
func (c Calculator) Union(fields ...Field) Layout {
	l := Layout{Fields: fields, Offsets: make([]uintptr, len(fields))}
	end := uintptr(0)
	for _, f := range fields {
		end = max(end, f.Size)
		l.Align = max(l.Align, c.fieldAlign(f))
	}
	return c.finish(l, end)
}

func alignUp(n, a uintptr) uintptr {
	return (n + a - 1) / a * a
}
