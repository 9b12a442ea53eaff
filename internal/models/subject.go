package models

import "fmt"

// Subject is an entry of the per-grade curriculum catalog. Hidden subjects
// stay in the catalog but are excluded from the promotion precondition.
type Subject struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Grade  GradeLevel `json:"grade"`
	Hidden bool       `json:"hidden"`
}

// Workshop is an entry of the technology-workshop catalog. Workshops persist
// across cycles untouched by promotion.
type Workshop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubjectsForGrade filters the catalog down to one grade level, preserving
// catalog order.
func SubjectsForGrade(catalog []Subject, grade GradeLevel) []Subject {
	var out []Subject
	for _, subject := range catalog {
		if subject.Grade == grade {
			out = append(out, subject)
		}
	}
	return out
}

// DefaultSubjectCatalog seeds the curriculum for a brand-new school document.
func DefaultSubjectCatalog() []Subject {
	names := map[GradeLevel][]string{
		GradeFirst:  {"Español I", "Matemáticas I", "Biología", "Geografía", "Historia I", "Inglés I", "Educación Física I", "Tecnología I", "Artes I"},
		GradeSecond: {"Español II", "Matemáticas II", "Física", "Formación Cívica y Ética I", "Historia II", "Inglés II", "Educación Física II", "Tecnología II", "Artes II"},
		GradeThird:  {"Español III", "Matemáticas III", "Química", "Formación Cívica y Ética II", "Historia III", "Inglés III", "Educación Física III", "Tecnología III", "Artes III"},
	}
	var catalog []Subject
	for _, grade := range []GradeLevel{GradeFirst, GradeSecond, GradeThird} {
		for i, name := range names[grade] {
			catalog = append(catalog, Subject{
				ID:    subjectID(grade, i+1),
				Name:  name,
				Grade: grade,
			})
		}
	}
	return catalog
}

func subjectID(grade GradeLevel, n int) string {
	return fmt.Sprintf("g%s-s%02d", grade, n)
}
