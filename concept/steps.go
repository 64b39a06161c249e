package concept

import "giggen/wizard"

// Steps returns the wizard step sequence for a concept kind. The basics and
// pricing steps are shared; the details step validates the kind-specific
// fields; the media step has no predicate so file attachments stay optional.
func Steps(kind Kind) []wizard.Step[Concept] {
	return []wizard.Step[Concept]{
		{
			Name: "basics",
			Valid: func(c Concept) bool {
				return c.Title != "" && c.Description != ""
			},
		},
		{
			Name:  "details",
			Valid: detailsPredicate(kind),
		},
		{
			Name: "pricing",
			Valid: func(c Concept) bool {
				return c.Price > 0 || c.ByAgreement
			},
		},
		{
			Name: "media",
		},
	}
}

func detailsPredicate(kind Kind) func(Concept) bool {
	switch kind {
	case KindTeaching:
		return func(c Concept) bool {
			return c.LessonFormat != "" && c.StudentLevel != ""
		}
	case KindSessionMusician:
		return func(c Concept) bool {
			return len(c.Instruments) > 0
		}
	case KindArrangerOffer:
		return func(c Concept) bool {
			return c.MaxAudience > 0 && c.MinAudience <= c.MaxAudience
		}
	default:
		return func(Concept) bool { return false }
	}
}
