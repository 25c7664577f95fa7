package tac

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ClassInfo is the per-class metadata resolved by the type checker. The program
// writer derives the virtual table and object layout of every class from it.
type ClassInfo struct {
	Name    string   // Class name.
	Parent  string   // Name of the parent class, or empty for a root class.
	Fields  []string // Declared member variables, in declaration order.
	Methods []string // Declared instance methods, in declaration order.
	Statics []string // Declared static methods, in declaration order.
	IsMain  bool     // Set if the class declares the program entry method.
}

// VTableEntry is one virtual method slot.
type VTableEntry struct {
	Method string // Method name; used to match overriding slots.
	Entry  Label  // Entry label of the implementation the slot dispatches to.
}

// VTable is the virtual dispatch table of one class. In memory the table starts with
// the parent table pointer and the class name, followed by one code pointer per slot.
type VTable struct {
	Class   string        // Owning class.
	Parent  *VTable       // Parent class table, or <nil> for a root class.
	Entries []VTableEntry // Method slots. Inherited slots keep their index.
}

// Layout holds the resolved virtual tables and object layouts of every class of the
// program under compilation. It is immutable once built.
type Layout struct {
	infos  map[string]*ClassInfo
	order  []string                    // Class names in declaration order.
	tables map[string]*VTable          // Virtual table per class.
	fields map[string]map[string]int32 // Field offsets from the object base, per class.
	sizes  map[string]int32            // Object sizes in bytes, per class.
}

// ---------------------
// ----- Functions -----
// ---------------------

// Label returns the symbolic address of VTable v.
func (v *VTable) Label() Label {
	return VTableLabel(v.Class)
}

// SlotOffset returns the byte offset of method slot i from the table base. The first
// two words of the table hold the parent pointer and the class name.
func SlotOffset(i int) int32 {
	return int32(2*WordSize + i*WordSize)
}

// NewLayout resolves the virtual table and object layout of every class. An error of
// type *ConfigurationError is returned when class metadata is absent, duplicated or
// refers to an unknown parent.
func NewLayout(infos []*ClassInfo) (*Layout, error) {
	l := &Layout{
		infos:  make(map[string]*ClassInfo, len(infos)),
		order:  make([]string, 0, len(infos)),
		tables: make(map[string]*VTable, len(infos)),
		fields: make(map[string]map[string]int32, len(infos)),
		sizes:  make(map[string]int32, len(infos)),
	}
	for _, e1 := range infos {
		if e1 == nil {
			return nil, &ConfigurationError{Msg: "class metadata is absent"}
		}
		if _, ok := l.infos[e1.Name]; ok {
			return nil, &ConfigurationError{Msg: "duplicate class metadata for " + e1.Name}
		}
		l.infos[e1.Name] = e1
		l.order = append(l.order, e1.Name)
	}
	for _, e1 := range infos {
		if len(e1.Parent) > 0 {
			if _, ok := l.infos[e1.Parent]; !ok {
				return nil, &ConfigurationError{Msg: "class " + e1.Name + " extends unknown class " + e1.Parent}
			}
		}
	}
	for _, e1 := range infos {
		l.resolve(e1)
	}
	return l, nil
}

// resolve computes the virtual table, field offsets and object size of class info,
// resolving its ancestors first. Cycles are ruled out by the type checker.
func (l *Layout) resolve(info *ClassInfo) *VTable {
	if vt, ok := l.tables[info.Name]; ok {
		return vt
	}

	var parent *VTable
	offsets := make(map[string]int32, len(info.Fields))
	off := int32(WordSize) // Word 0 of every object is the vtable pointer.
	vt := &VTable{Class: info.Name}

	if len(info.Parent) > 0 {
		parent = l.resolve(l.infos[info.Parent])
		vt.Parent = parent
		vt.Entries = append(vt.Entries, parent.Entries...)
		for k, v := range l.fields[info.Parent] {
			offsets[k] = v
		}
		off = l.sizes[info.Parent]
	}

	// Overriding methods replace the inherited slot in place; new methods append.
	for _, m := range info.Methods {
		entry := FuncLabel(info.Name, m)
		slot := -1
		for i1 := range vt.Entries {
			if vt.Entries[i1].Method == m {
				slot = i1
				break
			}
		}
		if slot >= 0 {
			vt.Entries[slot].Entry = entry
		} else {
			vt.Entries = append(vt.Entries, VTableEntry{Method: m, Entry: entry})
		}
	}

	// Inherited fields first, declared fields after, one word each.
	for _, f := range info.Fields {
		offsets[f] = off
		off += WordSize
	}

	l.tables[info.Name] = vt
	l.fields[info.Name] = offsets
	l.sizes[info.Name] = off
	return vt
}

// VTable returns the virtual table of the named class, or <nil> if the class is
// unknown.
func (l *Layout) VTable(class string) *VTable {
	return l.tables[class]
}

// VTables returns the virtual tables of all classes in declaration order. Emission
// order is stable and matches the layout every method body assumes when dispatching.
func (l *Layout) VTables() []*VTable {
	res := make([]*VTable, len(l.order))
	for i1, e1 := range l.order {
		res[i1] = l.tables[e1]
	}
	return res
}

// SlotOf returns the virtual table slot index of the named method as seen from the
// given static class.
func (l *Layout) SlotOf(class, method string) (int, bool) {
	vt, ok := l.tables[class]
	if !ok {
		return 0, false
	}
	for i1 := range vt.Entries {
		if vt.Entries[i1].Method == method {
			return i1, true
		}
	}
	return 0, false
}

// OffsetOf returns the byte offset of the named field from the object base, as laid
// out for the given class.
func (l *Layout) OffsetOf(class, field string) (int32, bool) {
	offsets, ok := l.fields[class]
	if !ok {
		return 0, false
	}
	off, ok := offsets[field]
	return off, ok
}

// ObjectSize returns the size in bytes of an instance of the named class, vtable
// pointer included.
func (l *Layout) ObjectSize(class string) int32 {
	return l.sizes[class]
}
