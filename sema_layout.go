package cc

// completeType makes sure id's layout metadata (size, alignment, member
// offsets, enumerator values, array element counts) is computed, reporting
// an error at m if the type cannot be completed. Layout is cached on the
// type node behind the Size == -1 sentinel, so a second call is a cheap
// no-op returning the same numbers.
func (s *Sema) completeType(id TypeID, m Mark) bool {
	if id == InvalidID {
		return false
	}
	t := s.t(id)
	switch t.Kind {
	case TyStruct, TyUnion:
		if t.Size >= 0 {
			return true
		}
		if !t.Complete {
			s.diag.Error(m, "invalid use of incomplete type %s", s.typeName(id))
			return false
		}
		return s.layoutStructUnion(id, m)
	case TyArray:
		return s.layoutArray(id, m)
	case TyEnum:
		return s.ensureEnumComplete(id, m)
	case TyVoid:
		s.diag.Error(m, "invalid use of %s type", "void")
		return false
	default:
		return true
	}
}

func roundUp(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// layoutStructUnion walks the member declarations in order, consuming
// bit-field runs bit by bit and aligning ordinary members, then rounds the
// total up to the aggregate's own alignment. Union members all land at
// offset zero; the union's size is its largest member's.
func (s *Sema) layoutStructUnion(id TypeID, m Mark) bool {
	t := s.t(id)
	isUnion := t.Kind == TyUnion
	ok := true

	var off int64       // next free byte offset (struct only)
	var bitPos int64    // bit cursor within the current bit-field run
	inRun := false      // a bit-field run is open
	var maxAlign int64 = 1
	var unionSize int64

	for i := range t.Fields {
		f := &t.Fields[i]
		if !s.completeType(f.Type, f.Mark) {
			ok = false
			continue
		}
		ft := s.t(f.Type)

		if f.IsBitField {
			width, wok := s.bitFieldWidth(f, ft)
			if !wok {
				ok = false
				continue
			}
			f.BitWidth = width
			if isUnion {
				f.Offset = 0
				f.BitOffset = 0
				if ft.Size > unionSize {
					unionSize = ft.Size
				}
				if ft.Align > maxAlign {
					maxAlign = ft.Align
				}
				continue
			}
			if !inRun {
				bitPos = off * 8
				inRun = true
			}
			if width == 0 {
				// A zero-width bit-field closes the storage unit: the next
				// member starts on a byte boundary.
				bitPos = roundUp(bitPos, 8)
				off = bitPos / 8
				continue
			}
			unitBits := ft.Size * 8
			if bitPos%unitBits+int64(width) > unitBits {
				bitPos = roundUp(bitPos, unitBits)
			}
			f.Offset = bitPos / 8
			f.BitOffset = int(bitPos % 8)
			bitPos += int64(width)
			off = (bitPos + 7) / 8
			if ft.Align > maxAlign {
				maxAlign = ft.Align
			}
			continue
		}

		inRun = false
		if isUnion {
			f.Offset = 0
			if ft.Size > unionSize {
				unionSize = ft.Size
			}
			if ft.Align > maxAlign {
				maxAlign = ft.Align
			}
			continue
		}
		off = roundUp(off, ft.Align)
		f.Offset = off
		off += ft.Size
		if ft.Align > maxAlign {
			maxAlign = ft.Align
		}
	}

	if isUnion {
		t.Size = roundUp(unionSize, maxAlign)
	} else {
		t.Size = roundUp(off, maxAlign)
	}
	t.Align = maxAlign
	return ok
}

func (s *Sema) bitFieldWidth(f *Field, ft *Type) (int, bool) {
	if !s.types.IsInteger(f.Type) {
		s.diag.Error(f.Mark, "bit-field %q has non-integer type", f.Name)
		return 0, false
	}
	s.checkExpr(f.BitWidthExpr)
	w, ok := s.requireConst(f.BitWidthExpr, "bit-field width")
	if !ok {
		return 0, false
	}
	if w < 0 || w > ft.Size*8 {
		s.diag.Error(f.Mark, "width of bit-field %q out of range for its type", f.Name)
		return 0, false
	}
	if w == 0 && f.Name != "" {
		s.diag.Error(f.Mark, "zero-width bit-field %q may not be named", f.Name)
		return 0, false
	}
	return int(w), true
}

// layoutArray completes an array type: complete the element, evaluate the
// declared length if one was written, and cache size and alignment. An
// array whose length is still unknown (no declared length and no
// initializer to infer one from) stays incomplete.
func (s *Sema) layoutArray(id TypeID, m Mark) bool {
	t := s.t(id)
	if t.Size >= 0 {
		return true
	}
	if !s.completeType(t.Elem, m) {
		return false
	}
	elem := s.t(t.Elem)
	if t.ArrayLen < 0 && t.ArrayLenExpr != InvalidID {
		s.checkExpr(t.ArrayLenExpr)
		n, ok := s.requireConst(t.ArrayLenExpr, "array length")
		if !ok {
			return false
		}
		if n < 0 {
			s.diag.Error(m, "array declared with negative length")
			return false
		}
		t.ArrayLen = n
	}
	if t.ArrayLen < 0 {
		s.diag.Error(m, "array has incomplete element count")
		return false
	}
	t.Size = t.ArrayLen * elem.Size
	t.Align = elem.Align
	t.Complete = true
	return true
}

// ensureEnumComplete assigns every enumerator its value (explicit constant
// expression, or previous + 1) and pushes the values onto the enumerator
// Decls so constant evaluation can resolve references.
func (s *Sema) ensureEnumComplete(id TypeID, m Mark) bool {
	if s.enumDone[id] {
		return true
	}
	t := s.t(id)
	if !t.Complete {
		s.diag.Error(m, "invalid use of incomplete type %s", s.typeName(id))
		return false
	}
	s.enumDone[id] = true // set first: value expressions may reference earlier enumerators
	var next int64
	for i := range t.Enumerators {
		en := &t.Enumerators[i]
		if en.ValueExpr != InvalidID {
			s.checkExpr(en.ValueExpr)
			v, ok := s.requireConst(en.ValueExpr, "enumerator value")
			if ok {
				next = v
			}
		}
		en.Value = next
		s.arena.Decl(en.D).EnumValue = next
		next++
	}
	return true
}

// findMember locates name among t's fields, descending transparently into
// anonymous struct/union members, and returns the matched field plus its
// cumulative byte offset from the start of t. Layout must already be
// complete.
func (s *Sema) findMember(id TypeID, name string) (Field, int64, bool) {
	t := s.t(id)
	for _, f := range t.Fields {
		if f.Anonymous {
			if inner, innerOff, ok := s.findMember(f.Type, name); ok {
				return inner, f.Offset + innerOff, true
			}
			continue
		}
		if f.Name == name {
			return f, f.Offset, true
		}
	}
	return Field{}, 0, false
}
