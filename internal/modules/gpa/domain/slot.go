package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const SchemaVersion = 1

type Level int

const (
	Level100 Level = 100
	Level200 Level = 200
	Level300 Level = 300
	Level400 Level = 400
)

type Semester int

const (
	SemesterOne Semester = 1
	SemesterTwo Semester = 2
)

var (
	Levels    = [...]Level{Level100, Level200, Level300, Level400}
	Semesters = [...]Semester{SemesterOne, SemesterTwo}
)

// SlotCount is the fixed number of (level, semester) pairs.
const SlotCount = len(Levels) * len(Semesters)

type Slot struct {
	Level    Level
	Semester Semester
}

func (l Level) Validate() error {
	for _, known := range Levels {
		if l == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported level %d", int(l))
}

func (s Semester) Validate() error {
	for _, known := range Semesters {
		if s == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported semester %d", int(s))
}

func (s Slot) Validate() error {
	if err := s.Level.Validate(); err != nil {
		return err
	}
	return s.Semester.Validate()
}

func (s Slot) String() string {
	return fmt.Sprintf("%d:%d", int(s.Level), int(s.Semester))
}

// Index is the slot's position in iteration order, or -1 if the slot is unknown.
func (s Slot) Index() int {
	for li, l := range Levels {
		if l != s.Level {
			continue
		}
		for si, sem := range Semesters {
			if sem == s.Semester {
				return li*len(Semesters) + si
			}
		}
	}
	return -1
}

// AllSlots returns every slot, levels ascending, then semesters in declared order.
func AllSlots() []Slot {
	out := make([]Slot, 0, SlotCount)
	for _, l := range Levels {
		for _, sem := range Semesters {
			out = append(out, Slot{Level: l, Semester: sem})
		}
	}
	return out
}

// ParseSlot accepts "<level>:<semester>", e.g. "300:2".
func ParseSlot(raw string) (Slot, error) {
	levelText, semText, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return Slot{}, fmt.Errorf("slot %q must look like <level>:<semester>", raw)
	}
	level, err := strconv.Atoi(levelText)
	if err != nil {
		return Slot{}, fmt.Errorf("slot %q: invalid level: %w", raw, err)
	}
	sem, err := strconv.Atoi(semText)
	if err != nil {
		return Slot{}, fmt.Errorf("slot %q: invalid semester: %w", raw, err)
	}
	slot := Slot{Level: Level(level), Semester: Semester(sem)}
	if err := slot.Validate(); err != nil {
		return Slot{}, err
	}
	return slot, nil
}
