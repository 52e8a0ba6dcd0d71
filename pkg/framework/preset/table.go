// Package preset provides the (bank, program) table the render core
// resolves program-select events against.
package preset

import (
	"errors"
)

// ErrNoPrograms is returned when a source enumerates zero programs.
var ErrNoPrograms = errors.New("preset: source has no programs")

// Program identifies one preset by bank and program number.
type Program struct {
	Bank    uint32
	Program uint32
	Name    string
}

// Source enumerates the programs a synthesis engine offers.
type Source interface {
	Programs() []Program
}

// Table holds the loaded program list and the currently active index.
// Owned by the audio thread after Reload.
type Table struct {
	programs []Program
	current  int32
}

// NewTable creates an empty table with no current program.
func NewTable() *Table {
	return &Table{current: -1}
}

// Reload replaces the table contents from src. A source with zero programs
// is a configuration error and leaves the table unchanged.
func (t *Table) Reload(src Source) error {
	progs := src.Programs()
	if len(progs) == 0 {
		return ErrNoPrograms
	}
	t.programs = append(t.programs[:0], progs...)
	t.current = -1
	return nil
}

// Lookup finds the index of the program matching (bank, program).
func (t *Table) Lookup(bank, program uint32) (int32, bool) {
	for i := range t.programs {
		if t.programs[i].Bank == bank && t.programs[i].Program == program {
			return int32(i), true
		}
	}
	return -1, false
}

// Get returns the program at index.
func (t *Table) Get(index int32) (Program, bool) {
	if index < 0 || index >= int32(len(t.programs)) {
		return Program{}, false
	}
	return t.programs[index], true
}

// Count returns the number of loaded programs.
func (t *Table) Count() int32 {
	return int32(len(t.programs))
}

// Current returns the active program index, or -1 when none is selected.
func (t *Table) Current() int32 {
	return t.current
}

// SetCurrent selects the active program index.
func (t *Table) SetCurrent(index int32) bool {
	if index < 0 || index >= int32(len(t.programs)) {
		return false
	}
	t.current = index
	return true
}
