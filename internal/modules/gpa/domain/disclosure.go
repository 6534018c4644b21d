package domain

// Disclosure tracks which level and semester panels are expanded. It only
// drives what the UI shows; aggregation never reads it.
type Disclosure struct {
	levels    map[Level]bool
	semesters map[Slot]bool
}

func NewDisclosure() Disclosure {
	return Disclosure{levels: map[Level]bool{}, semesters: map[Slot]bool{}}
}

func (d Disclosure) LevelOpen(level Level) bool {
	return d.levels[level]
}

func (d Disclosure) SemesterOpen(slot Slot) bool {
	return d.levels[slot.Level] && d.semesters[slot]
}

// ToggleLevel closing a level also forgets which of its semesters were open.
func (d Disclosure) ToggleLevel(level Level) Disclosure {
	next := d.clone()
	if next.levels[level] {
		delete(next.levels, level)
		for _, sem := range Semesters {
			delete(next.semesters, Slot{Level: level, Semester: sem})
		}
		return next
	}
	next.levels[level] = true
	return next
}

func (d Disclosure) ToggleSemester(slot Slot) Disclosure {
	next := d.clone()
	if next.semesters[slot] {
		delete(next.semesters, slot)
	} else {
		next.semesters[slot] = true
	}
	return next
}

func (d Disclosure) ExpandAll() Disclosure {
	next := NewDisclosure()
	for _, slot := range AllSlots() {
		next.levels[slot.Level] = true
		next.semesters[slot] = true
	}
	return next
}

func (d Disclosure) CollapseAll() Disclosure {
	return NewDisclosure()
}

func (d Disclosure) clone() Disclosure {
	next := NewDisclosure()
	for k, v := range d.levels {
		next.levels[k] = v
	}
	for k, v := range d.semesters {
		next.semesters[k] = v
	}
	return next
}
