package payload

import (
	"strconv"

	"github.com/pfrederiksen/scorecard-sync/internal/raw"
)

// Submitted field names of the round metadata.
const (
	FieldMemberID    = "gc_id"
	FieldFacilityID  = "gc_facility_id"
	FieldCourseID    = "gc_course_id"
	FieldTeeID       = "gc_tee_id"
	FieldPlayedDate  = "played_date"
	FieldCardDate    = "scorecard_date"
	FieldHolesMode   = "holes_mode"
	FieldFormat      = "format"
	FieldTournament  = "tournament_score"
	FieldPlayedAlone = "played_alone"
	FieldAttestor    = "attestor"
)

// RoundMetadata is everything about a round except its hole scores.
type RoundMetadata struct {
	IndividualID int
	FacilityID   int
	CourseID     int
	TeeID        int
	PlayedDate   string
	Format       string // stroke or match
	HolesMode    string // 18, front9 or back9
	Tournament   bool
	PlayedAlone  bool
	Attestor     string
}

// MetadataFromValues reads the flat scalar fields of a submitted form.
// A missing played_date falls back to scorecard_date; a blank one does not.
func MetadataFromValues(values raw.Value) RoundMetadata {
	meta := RoundMetadata{
		IndividualID: intField(values, FieldMemberID),
		FacilityID:   intField(values, FieldFacilityID),
		CourseID:     intField(values, FieldCourseID),
		TeeID:        intField(values, FieldTeeID),
		HolesMode:    "18",
		Format:       "stroke",
		Attestor:     textField(values, FieldAttestor),
	}

	if v, ok := present(values, FieldPlayedDate); ok {
		meta.PlayedDate = v.Text()
	} else {
		meta.PlayedDate = textField(values, FieldCardDate)
	}
	if v, ok := present(values, FieldHolesMode); ok {
		meta.HolesMode = v.Text()
	}
	if v, ok := present(values, FieldFormat); ok {
		meta.Format = v.Text()
	}
	if v, ok := values.Get(FieldTournament); ok {
		meta.Tournament = truthy(v)
	}
	meta.PlayedAlone = textField(values, FieldPlayedAlone) == "yes"

	return meta
}

// present looks up a non-null field.
func present(values raw.Value, key string) (raw.Value, bool) {
	v, ok := values.Get(key)
	if !ok || v.IsNull() {
		return raw.Value{}, false
	}
	return v, true
}

func textField(values raw.Value, key string) string {
	v, _ := values.Get(key)
	return v.Text()
}

// intField casts a field the way a loosely typed handler would: the leading
// numeric prefix counts and anything else, including a number too large for an
// int, is zero.
func intField(values raw.Value, key string) int {
	v, ok := values.Get(key)
	if !ok {
		return 0
	}
	if b, isBool := v.Bool(); isBool {
		if b {
			return 1
		}
		return 0
	}
	n, _ := raw.LeadingInt(v.Text())
	return n
}

// truthy follows loose emptiness: null, false, "", "0", zero and empty
// containers are false.
func truthy(v raw.Value) bool {
	switch v.Kind() {
	case raw.Null:
		return false
	case raw.Bool:
		b, _ := v.Bool()
		return b
	case raw.Mapping, raw.Sequence:
		return v.Len() > 0
	case raw.Number:
		f, err := strconv.ParseFloat(v.Text(), 64)
		return err != nil || f != 0
	}
	s := v.Text()
	return s != "" && s != "0"
}
