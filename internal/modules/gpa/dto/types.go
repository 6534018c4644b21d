package dto

import "time"

// EntryInput is one setField: the raw text for one field of one slot.
type EntryInput struct {
	Level    int
	Semester int
	Field    string
	Value    string
}

type CalculateInput struct {
	Entries []EntryInput
}

type SemesterOutput struct {
	Level         int
	Semester      int
	GPA           float64
	Credits       float64
	QualityPoints float64
	Available     bool
	Display       string
}

type CalculateOutput struct {
	Semesters           []SemesterOutput
	CumulativeGPA       float64
	CumulativeAvailable bool
	TotalCredits        float64
	TotalQualityPoints  float64
	ContributingSlots   int
	CumulativeDisplay   string
	CreditsDisplay      string
	PointsDisplay       string
}

type ExportInput struct {
	Label   string
	Formats []string
	Entries []EntryInput
}

type ExportOutput struct {
	Report ReportOutput
	Result CalculateOutput
}

type ReportOutput struct {
	ID                string
	Label             string
	CreatedAt         time.Time
	CumulativeDisplay string
	CreditsDisplay    string
	PointsDisplay     string
	ContributingSlots int
	NotePath          string
	WorkbookPath      string
}
