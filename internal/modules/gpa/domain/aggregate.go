package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type SemesterResult struct {
	Slot          Slot
	GPA           float64
	Credits       float64
	QualityPoints float64
	Available     bool
}

type AggregateResult struct {
	Semesters           [SlotCount]SemesterResult
	CumulativeGPA       float64
	CumulativeAvailable bool
	TotalCredits        float64
	TotalQualityPoints  float64
}

func (r AggregateResult) Semester(slot Slot) SemesterResult {
	idx := slot.Index()
	if idx < 0 {
		return SemesterResult{Slot: slot}
	}
	return r.Semesters[idx]
}

// Contributing counts slots that fed the cumulative figures.
func (r AggregateResult) Contributing() int {
	n := 0
	for _, s := range r.Semesters {
		if s.Available {
			n++
		}
	}
	return n
}

// Aggregate folds the store into credit-weighted totals. A slot contributes
// only when both of its fields parse as finite numbers; nothing is range checked.
func Aggregate(store EntryStore) AggregateResult {
	result := AggregateResult{}
	for i, item := range store.Entries() {
		sem := SemesterResult{Slot: item.Slot}
		gpa, gpaOK := ParseNumber(item.Entry.GPAText)
		credits, creditsOK := ParseNumber(item.Entry.CreditsText)
		if gpaOK && creditsOK {
			sem.GPA = gpa
			sem.Credits = credits
			sem.QualityPoints = gpa * credits
			sem.Available = true
			result.TotalQualityPoints += sem.QualityPoints
			result.TotalCredits += credits
		}
		result.Semesters[i] = sem
	}
	if result.TotalCredits > 0 {
		result.CumulativeGPA = result.TotalQualityPoints / result.TotalCredits
		result.CumulativeAvailable = true
	}
	return result
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber reports whether text is a finite plain decimal number.
func ParseNumber(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !decimalPattern.MatchString(text) {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

const NotAvailable = "N/A"

func FormatGPA(value float64, available bool) string {
	if !available {
		return NotAvailable
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func FormatCredits(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func FormatPoints(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// Hint describes the advisory input range shown next to a field. It is never enforced.
type Hint struct {
	Min     float64
	Max     float64
	HasMax  bool
	Step    float64
	Example string
}

var (
	GPAHint     = Hint{Min: 0, Max: 12, HasMax: true, Step: 0.01, Example: "9.5"}
	CreditsHint = Hint{Min: 0, Step: 0.5, Example: "20"}
)

func HintFor(field Field) Hint {
	if field == FieldCredits {
		return CreditsHint
	}
	return GPAHint
}

func (h Hint) String() string {
	if h.HasMax {
		return "e.g. " + h.Example + " (" + FormatCredits(h.Min) + "–" + FormatCredits(h.Max) + ")"
	}
	return "e.g. " + h.Example + " (≥" + FormatCredits(h.Min) + ")"
}
