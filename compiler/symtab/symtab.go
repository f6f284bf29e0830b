package symtab

import "tlog.app/go/tlog/tlwire"

type (
	// Table binds variable names to stack offsets of one function.
	// Entries are kept in declaration order and never removed.
	Table struct {
		items []Var
	}

	Var struct {
		Name   string
		Offset int
	}
)

func New() *Table {
	return &Table{}
}

// Bind appends name at offset. Duplicates are not checked.
func (t *Table) Bind(name string, off int) {
	t.items = append(t.items, Var{Name: name, Offset: off})
}

// Lookup returns the offset of the earliest binding of name.
// A later Bind of the same name does not shadow it.
func (t *Table) Lookup(name string) (off int, ok bool) {
	for _, v := range t.items {
		if v.Name == name {
			return v.Offset, true
		}
	}

	return 0, false
}

func (t *Table) Len() int {
	return len(t.items)
}

func (t *Table) Vars() []Var {
	return t.items
}

func (t *Table) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, len(t.items))

	for _, v := range t.items {
		b = e.AppendKeyInt(b, v.Name, v.Offset)
	}

	return b
}
