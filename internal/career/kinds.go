package career

import "strings"

// SectionKind is the schedule shift classification behind the section tag.
type SectionKind string

const (
	SectionDay     SectionKind = "DIURNA"
	SectionEvening SectionKind = "VESPERTINA"
	SectionNight   SectionKind = "NOCTURNA"
	SectionUnknown SectionKind = ""
)

// ClassifySection maps raw section text to its kind.
func ClassifySection(raw string) SectionKind {
	v := strings.ToUpper(raw)
	switch {
	case strings.Contains(v, "DIUR"):
		return SectionDay
	case strings.Contains(v, "VESP"):
		return SectionEvening
	case strings.Contains(v, "NOCT"):
		return SectionNight
	default:
		return SectionUnknown
	}
}

// TagClass returns the CSS tag class rendering this kind.
func (k SectionKind) TagClass() string {
	switch k {
	case SectionDay:
		return "tag-green"
	case SectionEvening:
		return "tag-gold"
	case SectionNight:
		return "tag-blue"
	default:
		return "tag-plain"
	}
}

// StatusKind is the titulation progress classification behind the status tag.
type StatusKind string

const (
	StatusInProgress StatusKind = "EN CURSO"
	StatusApproved   StatusKind = "APROBADO"
	StatusFailed     StatusKind = "REPROBADO"
	StatusUnknown    StatusKind = ""
)

// ClassifyStatus maps raw status text to its kind.
func ClassifyStatus(raw string) StatusKind {
	v := strings.ToUpper(raw)
	switch {
	case strings.Contains(v, "EN_CURSO"), strings.Contains(v, "EN CURSO"):
		return StatusInProgress
	case strings.Contains(v, "REPROB"):
		return StatusFailed
	case strings.Contains(v, "APROB"):
		return StatusApproved
	default:
		return StatusUnknown
	}
}

// TagClass returns the CSS tag class rendering this kind.
func (k StatusKind) TagClass() string {
	switch k {
	case StatusInProgress:
		return "tag-blue"
	case StatusApproved:
		return "tag-green"
	case StatusFailed:
		return "tag-red"
	default:
		return "tag-plain"
	}
}
