package compiler

import (
	"sort"

	"github.com/cloudcmds/kestrel/errz"
	"github.com/cloudcmds/kestrel/op"
)

// Symbol is a global binding: a name and the storage slot assigned to it.
type Symbol struct {
	Name  string
	Index uint16
}

// SymbolTable assigns global slots to names. Slots are handed out
// sequentially from zero and are never reused: redefining a name allocates a
// new slot and the old slot stays valid but unreachable by name.
type SymbolTable struct {
	symbols map[string]Symbol
	count   int
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]Symbol{}}
}

// Define binds name to the next free slot and returns the new symbol.
func (t *SymbolTable) Define(name string) (Symbol, error) {
	if t.count > op.MaxOperand {
		return Symbol{}, errz.Errorf(errz.LimitExceeded,
			"cannot define %q: all %d global slots are in use", name, op.MaxOperand+1)
	}
	symbol := Symbol{Name: name, Index: uint16(t.count)}
	t.symbols[name] = symbol
	t.count++
	return symbol, nil
}

// Resolve returns the symbol currently bound to name.
func (t *SymbolTable) Resolve(name string) (Symbol, bool) {
	symbol, ok := t.symbols[name]
	return symbol, ok
}

// Count returns the number of slots allocated so far, including slots whose
// names were later rebound.
func (t *SymbolTable) Count() int {
	return t.count
}

// Names returns the currently bound names, sorted.
func (t *SymbolTable) Names() []string {
	names := make([]string, 0, len(t.symbols))
	for name := range t.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbols returns the currently bound symbols ordered by slot.
func (t *SymbolTable) Symbols() []Symbol {
	symbols := make([]Symbol, 0, len(t.symbols))
	for _, symbol := range t.symbols {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i].Index < symbols[j].Index
	})
	return symbols
}

// Lookup returns the name currently bound to the given slot, if any.
func (t *SymbolTable) Lookup(index uint16) (string, bool) {
	for name, symbol := range t.symbols {
		if symbol.Index == index {
			return name, true
		}
	}
	return "", false
}

// Clone returns an independent copy of the table. Sessions use it to take a
// snapshot that can be restored if a compilation fails.
func (t *SymbolTable) Clone() *SymbolTable {
	symbols := make(map[string]Symbol, len(t.symbols))
	for name, symbol := range t.symbols {
		symbols[name] = symbol
	}
	return &SymbolTable{symbols: symbols, count: t.count}
}

// Restore resets the table to the state captured by snapshot, which must
// have been taken from this table with Clone.
func (t *SymbolTable) Restore(snapshot *SymbolTable) {
	t.symbols = snapshot.Clone().symbols
	t.count = snapshot.count
}
