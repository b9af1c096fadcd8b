// Package normalization maps the free-form planning import rows (arbitrary
// spreadsheet column names) onto the fixed work-order-line schema. Unknown
// shapes produce typed errors at import time instead of silently defaulting
// to empty fields at read time.
package normalization

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PlanningRow is a normalized planning import row.
type PlanningRow struct {
	Ordre         string
	Sequence      int
	Machine       string
	DurationHours float64
	Comment       string
}

// UnrecognizedRowError reports an import row whose shape could not be mapped
// onto the work-order-line schema.
type UnrecognizedRowError struct {
	Field string
	Keys  []string
}

func (e *UnrecognizedRowError) Error() string {
	return fmt.Sprintf("ligne planning non reconnue: aucun champ %q parmi les colonnes %v", e.Field, e.Keys)
}

// Candidate header spellings observed in the planning spreadsheets. Matching
// is case- and accent-tolerant via normalizeHeader.
var (
	ordreKeys    = []string{"ordre", "of", "no of", "n of", "num of", "numero of", "no_of"}
	sequenceKeys = []string{"sequence", "seq", "ordre seq", "no seq", "rang"}
	machineKeys  = []string{"machine", "ressource", "moyen", "poste machine", "besoin machine"}
	durationKeys = []string{"duree", "durée", "heures", "duree h", "temps", "duration"}
	commentKeys  = []string{"commentaire", "comment", "remarque", "observations", "notes"}
)

// ParsePlanningRow normalizes one raw import row. Ordre and sequence are
// required; machine, duration and comment default to zero values.
func ParsePlanningRow(raw map[string]any) (*PlanningRow, error) {
	byHeader := make(map[string]any, len(raw))
	keys := make([]string, 0, len(raw))
	for k, v := range raw {
		byHeader[normalizeHeader(k)] = v
		keys = append(keys, k)
	}

	ordre := ParseInputString(probeString(byHeader, ordreKeys))
	if ordre == "" {
		return nil, &UnrecognizedRowError{Field: "ordre", Keys: keys}
	}
	seq, ok := probeInt(byHeader, sequenceKeys)
	if !ok || seq <= 0 {
		return nil, &UnrecognizedRowError{Field: "sequence", Keys: keys}
	}

	dur, _ := probeFloat(byHeader, durationKeys)
	return &PlanningRow{
		Ordre:         ordre,
		Sequence:      seq,
		Machine:       ParseInputString(probeString(byHeader, machineKeys)),
		DurationHours: dur,
		Comment:       ParseInputString(probeString(byHeader, commentKeys)),
	}, nil
}

// ParseInputString trims surrounding whitespace from operator input.
func ParseInputString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeMachine canonicalizes a machine/resource name for predecessor
// matching: lowercased, internal whitespace collapsed. "A61 NX" and
// "a61  nx" compare equal.
func NormalizeMachine(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, " ")
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	replacer := strings.NewReplacer("é", "e", "è", "e", "ê", "e", "°", " ", "_", " ", "-", " ", ".", " ")
	h = replacer.Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func probeString(row map[string]any, candidates []string) string {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t
			}
		case float64:
			if t == math.Trunc(t) {
				return strconv.FormatInt(int64(t), 10)
			}
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		}
	}
	return ""
}

func probeInt(row map[string]any, candidates []string) (int, bool) {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case int:
			return t, true
		case float64:
			return int(t), true
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return i, true
			}
		}
	}
	return 0, false
}

func probeFloat(row map[string]any, candidates []string) (float64, bool) {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case string:
			normalized := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
			if f, err := strconv.ParseFloat(normalized, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
