// Package career classifies the free-text fields the titulation backend
// returns (career, section, status) into fixed display taxonomies, and
// holds the pure roster derivations built on top of them.
package career

import (
	"strings"

	"github.com/sudamericano/titulacion-console/internal/models"
)

// Key is a canonical program name, or Unassigned when the raw career
// text matches no program.
type Key string

const (
	Software      Key = "Desarrollo de software"
	GraphicDesign Key = "Diseño gráfico"
	Gastronomy    Key = "Gastronomía"
	Marketing     Key = "Marketing digital y negocios"
	Tourism       Key = "Turismo"
	HumanTalent   Key = "Talento humano"
	Nursing       Key = "Enfermería"
	Electricity   Key = "Electricidad"
	Accounting    Key = "Contabilidad y asesoría tributaria"
	Networks      Key = "Redes y Telecomunicaciones"
	Unassigned    Key = "Sin carrera"
)

type rule struct {
	key   Key
	match func(string) bool
}

func has(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func either(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

func both(a, b func(string) bool) func(string) bool {
	return func(s string) bool { return a(s) && b(s) }
}

// Predicates are tested in this order and the first match wins. They are
// not mutually exclusive (a string naming two programs classifies as the
// one declared first), so the order is part of the contract.
var rules = []rule{
	{Software, has("software")},
	{GraphicDesign, either(has("graf"), both(has("dise"), has("gr")))},
	{Gastronomy, has("gastr")},
	{Marketing, has("marketing")},
	{Tourism, has("turismo")},
	{HumanTalent, has("talento")},
	{Nursing, has("enfer")},
	{Electricity, has("electr")},
	{Accounting, either(has("contab"), has("tribut"))},
	{Networks, either(has("redes"), has("telecom"))},
}

// Normalize maps raw career text to its canonical Key. It is total:
// every input yields exactly one Key, with Unassigned as the catch-all.
func Normalize(raw string) Key {
	x := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range rules {
		if r.match(x) {
			return r.key
		}
	}
	return Unassigned
}

// Keys returns the ten canonical programs in gallery order.
func Keys() []Key {
	keys := make([]Key, 0, len(rules))
	for _, r := range rules {
		keys = append(keys, r.key)
	}
	return keys
}

// Valid reports whether k names a canonical program (Unassigned included).
func Valid(k Key) bool {
	if k == Unassigned {
		return true
	}
	for _, r := range rules {
		if r.key == k {
			return true
		}
	}
	return false
}

// Counts tallies roster rows per program. Rows classifying as Unassigned
// are excluded; they remain visible in the raw roster only.
func Counts(rows []models.StudentRow) map[Key]int {
	counts := make(map[Key]int, len(rules))
	for _, row := range rows {
		if k := Normalize(row.Career); k != Unassigned {
			counts[k]++
		}
	}
	return counts
}

// Filter returns the rows whose normalized career equals key and which
// match the search text. Search is a case-insensitive containment test
// over DNI, first name, last name and email; empty search matches all.
func Filter(rows []models.StudentRow, key Key, search string) []models.StudentRow {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.StudentRow, 0, len(rows))
	for _, row := range rows {
		if Normalize(row.Career) != key {
			continue
		}
		if q != "" {
			haystack := strings.ToLower(row.DNI + " " + row.FirstName + " " + row.LastName + " " + row.Email)
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		out = append(out, row)
	}
	return out
}
