package cc

// canonicalizeInit rewrites item in place so its shape matches the target
// type one-to-one: struct lists get exactly one entry per member in
// declaration order with zero-fill placeholders in the gaps, union lists
// collapse to a single entry, array entries land at their (possibly
// designated) indices, and designators naming members of anonymous
// aggregates are pushed down into synthesized nested lists. A canonical
// list is marked and re-canonicalization is a no-op.
func (s *Sema) canonicalizeInit(target TypeID, item *InitItem) bool {
	if item == nil {
		return true
	}
	if item.Canonical {
		return true
	}
	if target == InvalidID {
		item.Canonical = true
		return false
	}
	t := s.t(target)

	if item.List == nil {
		// A bare expression initializing target, braces omitted.
		et := s.checkExpr(item.Value)
		if et != InvalidID {
			s.assignable(target, et, s.exprMark(item.Value), "initialization")
		}
		item.Canonical = true
		return true
	}

	ok := true
	switch t.Kind {
	case TyStruct:
		ok = s.canonStruct(target, item)
	case TyUnion:
		ok = s.canonUnion(target, item)
	case TyArray:
		ok = s.canonArray(target, item)
	default:
		// Brace-wrapped scalar: `int x = {1};`
		if len(item.List) > 1 {
			s.diag.Warning(item.Mark, "excess elements in scalar initializer")
			item.List = item.List[:1]
		}
		for _, child := range item.List {
			ok = s.canonicalizeInit(target, child) && ok
		}
	}
	item.Canonical = true
	return ok
}

// initSlots is the working state for canonicalizing one struct level: raw
// entries routed per field, plus the positional cursor.
type initSlots struct {
	fields []Field
	raw    [][]*InitItem // pending entries per field, canonicalized at the end
	cursor int
}

// initTargetable reports whether a field can receive an initializer entry:
// unnamed bit-fields cannot.
func initTargetable(f Field) bool {
	return f.Anonymous || f.Name != ""
}

func (s *Sema) canonStruct(target TypeID, item *InitItem) bool {
	t := s.t(target)
	slots := &initSlots{fields: t.Fields, raw: make([][]*InitItem, len(t.Fields))}
	ok := true
	for _, entry := range item.List {
		if len(entry.Designators) > 0 {
			if _, routed := s.routeDesignated(target, slots, entry); !routed {
				ok = false
			}
		} else {
			if _, routed := s.routePositional(target, slots, entry); !routed {
				s.diag.Warning(entry.Mark, "excess elements in %s initializer", kindWord(t.Kind))
			}
		}
	}
	item.List = s.finishSlots(slots, item.Mark)
	return ok
}

func (s *Sema) canonUnion(target TypeID, item *InitItem) bool {
	t := s.t(target)
	slots := &initSlots{fields: t.Fields, raw: make([][]*InitItem, len(t.Fields))}
	ok := true
	last := -1
	anyDesignated := false
	// With designators, the member named by the last designated entry
	// wins; several designators routing into the same member (through an
	// anonymous aggregate) merge rather than replace each other.
	for _, entry := range item.List {
		if len(entry.Designators) == 0 {
			continue
		}
		anyDesignated = true
		if idx, routed := s.routeDesignated(target, slots, entry); routed {
			last = idx
		} else {
			ok = false
		}
	}
	if !anyDesignated {
		if len(item.List) == 0 {
			item.List = nil
			return true
		}
		if len(item.List) > 1 {
			s.diag.Warning(item.Mark, "excess elements in %s initializer", kindWord(t.Kind))
		}
		if idx, routed := s.routePositional(target, slots, item.List[0]); routed {
			last = idx
		}
	}
	if last < 0 {
		item.List = nil
		return ok
	}
	item.List = []*InitItem{s.finishSlot(slots, last, item.Mark)}
	return ok
}

// routePositional assigns entry to the next positional slot, descending
// transparently into anonymous aggregate members. Returns the slot index
// used, or routed == false when every slot is already past (excess
// element).
func (s *Sema) routePositional(target TypeID, slots *initSlots, entry *InitItem) (int, bool) {
	for slots.cursor < len(slots.fields) && !initTargetable(slots.fields[slots.cursor]) {
		slots.cursor++
	}
	if slots.cursor >= len(slots.fields) {
		return -1, false
	}
	i := slots.cursor
	f := slots.fields[i]
	if f.Anonymous && entry.List == nil {
		// A scalar flowing into an anonymous aggregate initializes its
		// leaves in order; keep appending to this member's pending list
		// until its own positional slots run out.
		slots.raw[i] = append(slots.raw[i], entry)
		if s.anonLeafCount(f.Type) <= s.positionalCount(slots.raw[i]) {
			slots.cursor++
		}
		return i, true
	}
	slots.raw[i] = append(slots.raw[i], entry)
	slots.cursor = i + 1
	return i, true
}

// positionalCount counts the undesignated entries pending for a slot.
func (s *Sema) positionalCount(entries []*InitItem) int {
	n := 0
	for _, e := range entries {
		if len(e.Designators) == 0 {
			n++
		}
	}
	return n
}

// anonLeafCount is how many positional values an anonymous aggregate can
// absorb before it is full: one per leaf for a struct, one total for a
// union.
func (s *Sema) anonLeafCount(id TypeID) int {
	t := s.t(id)
	if t.Kind == TyUnion {
		return 1
	}
	n := 0
	for _, f := range t.Fields {
		switch {
		case f.Anonymous:
			n += s.anonLeafCount(f.Type)
		case f.Name != "":
			n++
		}
	}
	return n
}

// routeDesignated resolves entry's leading designator against target's
// members: a direct member takes the entry (remaining designator steps are
// pushed into that member's nested canonicalization); a name found inside
// an anonymous aggregate routes the entry, designators intact, into the
// synthesized list for that member.
func (s *Sema) routeDesignated(target TypeID, slots *initSlots, entry *InitItem) (int, bool) {
	d := entry.Designators[0]
	if d.Field == "" {
		s.diag.Error(d.Mark, "array designator used in a %s initializer", kindWord(s.t(target).Kind))
		return -1, false
	}
	for i, f := range slots.fields {
		if !f.Anonymous && f.Name == d.Field {
			entry.Designators = entry.Designators[1:]
			slots.raw[i] = append(slots.raw[i], entry)
			slots.cursor = i + 1
			return i, true
		}
	}
	for i, f := range slots.fields {
		if f.Anonymous && s.aggregateHasMember(f.Type, d.Field) {
			slots.raw[i] = append(slots.raw[i], entry)
			slots.cursor = i + 1
			return i, true
		}
	}
	s.diag.Error(d.Mark, "%s has no member named %q", s.typeName(target), d.Field)
	return -1, false
}

// aggregateHasMember is findMember's name-only cousin, usable before
// layout has computed any offsets.
func (s *Sema) aggregateHasMember(id TypeID, name string) bool {
	for _, f := range s.t(id).Fields {
		if f.Anonymous {
			if s.aggregateHasMember(f.Type, name) {
				return true
			}
			continue
		}
		if f.Name == name {
			return true
		}
	}
	return false
}

// finishSlots produces the canonical one-entry-per-field list, filling
// gaps with zero-init placeholders.
func (s *Sema) finishSlots(slots *initSlots, m Mark) []*InitItem {
	out := make([]*InitItem, len(slots.fields))
	for i := range slots.fields {
		out[i] = s.finishSlot(slots, i, m)
	}
	return out
}

func (s *Sema) finishSlot(slots *initSlots, i int, m Mark) *InitItem {
	f := slots.fields[i]
	entries := slots.raw[i]
	if len(entries) == 0 {
		return newFillerInit(m)
	}
	if f.Anonymous {
		// Synthesize a nested list for the anonymous member and
		// canonicalize it recursively; entries carry any remaining
		// designators with them.
		nested := newListInit(entries[0].Mark, entries)
		s.canonicalizeInit(f.Type, nested)
		return nested
	}
	// A named field keeps the last entry written to it (later designated
	// initializers overwrite earlier positionals).
	entry := entries[len(entries)-1]
	if len(entry.Designators) > 0 {
		// Remaining designator steps apply inside this member: wrap them
		// into a synthetic nested list.
		nested := newListInit(entry.Mark, []*InitItem{entry})
		s.canonicalizeInit(f.Type, nested)
		return nested
	}
	s.canonicalizeInit(f.Type, entry)
	return entry
}

func (s *Sema) canonArray(target TypeID, item *InitItem) bool {
	t := s.t(target)
	ok := true
	// Canonicalization runs before layout, so a declared length is still
	// an unevaluated expression here; resolve it now so excess elements
	// and gaps can be measured against it.
	if t.ArrayLen < 0 && t.ArrayLenExpr != InvalidID {
		s.checkExpr(t.ArrayLenExpr)
		if n, lok := s.constEval(t.ArrayLenExpr); lok && n >= 0 {
			t.ArrayLen = n
		}
	}
	var slots []*InitItem
	next := 0
	set := func(idx int, entry *InitItem) {
		for len(slots) <= idx {
			slots = append(slots, nil)
		}
		slots[idx] = entry
		next = idx + 1
	}
	for _, entry := range item.List {
		idx := next
		if len(entry.Designators) > 0 {
			d := entry.Designators[0]
			if d.Field != "" {
				s.diag.Error(d.Mark, "field designator used in an array initializer")
				ok = false
				continue
			}
			s.checkExpr(d.Index)
			v, cok := s.requireConst(d.Index, "array designator")
			if !cok || v < 0 {
				ok = false
				continue
			}
			idx = int(v)
			entry.Designators = entry.Designators[1:]
			if len(entry.Designators) > 0 {
				nested := newListInit(entry.Mark, []*InitItem{entry})
				set(idx, nested)
				ok = s.canonicalizeInit(t.Elem, nested) && ok
				continue
			}
		}
		set(idx, entry)
		ok = s.canonicalizeInit(t.Elem, entry) && ok
	}
	if t.ArrayLen >= 0 && int64(len(slots)) > t.ArrayLen {
		s.diag.Warning(item.Mark, "excess elements in array initializer")
		slots = slots[:t.ArrayLen]
	}
	for t.ArrayLen >= 0 && int64(len(slots)) < t.ArrayLen {
		slots = append(slots, nil)
	}
	if t.ArrayLen < 0 && t.ArrayLenExpr == InvalidID {
		// `int a[] = {...}`: the initializer fixes the element count.
		t.ArrayLen = int64(len(slots))
	}
	for i, entry := range slots {
		if entry == nil {
			slots[i] = newFillerInit(item.Mark)
		}
	}
	item.List = slots
	return ok
}
