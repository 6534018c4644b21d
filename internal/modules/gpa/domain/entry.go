package domain

import "fmt"

type Field string

const (
	FieldGPA     Field = "gpa"
	FieldCredits Field = "credits"
)

func (f Field) Validate() error {
	switch f {
	case FieldGPA, FieldCredits:
		return nil
	default:
		return fmt.Errorf("unsupported field %q", string(f))
	}
}

// Entry holds the raw text typed for one slot. Empty means unset.
type Entry struct {
	GPAText     string
	CreditsText string
}

func (e Entry) Get(field Field) string {
	if field == FieldCredits {
		return e.CreditsText
	}
	return e.GPAText
}

type SlotEntry struct {
	Slot  Slot
	Entry Entry
}

// EntryStore has exactly one Entry per slot for its whole lifetime. It is a
// value: SetField returns the updated store and leaves the receiver alone.
type EntryStore struct {
	entries [SlotCount]Entry
}

func NewEntryStore() EntryStore {
	return EntryStore{}
}

func (s EntryStore) SetField(slot Slot, field Field, value string) (EntryStore, error) {
	idx := slot.Index()
	if idx < 0 {
		return s, fmt.Errorf("unsupported slot %s", slot)
	}
	if err := field.Validate(); err != nil {
		return s, err
	}
	switch field {
	case FieldGPA:
		s.entries[idx].GPAText = value
	case FieldCredits:
		s.entries[idx].CreditsText = value
	}
	return s, nil
}

func (s EntryStore) Entry(slot Slot) Entry {
	idx := slot.Index()
	if idx < 0 {
		return Entry{}
	}
	return s.entries[idx]
}

func (s EntryStore) Entries() []SlotEntry {
	out := make([]SlotEntry, 0, SlotCount)
	for i, slot := range AllSlots() {
		out = append(out, SlotEntry{Slot: slot, Entry: s.entries[i]})
	}
	return out
}

func (s EntryStore) Reset() EntryStore {
	return NewEntryStore()
}
