package types

import "github.com/google/uuid"

// RequirementKind classifies an atomic requirement unit extracted from a job posting.
type RequirementKind string

// Requirement kinds as produced by the extraction collaborator.
const (
	KindRequired       RequirementKind = "required"
	KindPreferred      RequirementKind = "preferred"
	KindResponsibility RequirementKind = "responsibility"
	KindConstraint     RequirementKind = "constraint"
	KindBenefit        RequirementKind = "benefit"
)

// Valid reports whether the kind is one of the known classifications.
func (k RequirementKind) Valid() bool {
	switch k {
	case KindRequired, KindPreferred, KindResponsibility, KindConstraint, KindBenefit:
		return true
	}
	return false
}

// MustHave reports whether a requirement of this kind is non-negotiable.
// Required skills and hard constraints count against required coverage;
// everything else is advisory.
func (k RequirementKind) MustHave() bool {
	return k == KindRequired || k == KindConstraint
}

// RequirementUnit is one atomic, checkable claim extracted from a job
// posting. Units are immutable after extraction; re-extraction creates new
// units with new IDs and orphans old matches (marked stale, not deleted).
type RequirementUnit struct {
	ID        uuid.UUID         `json:"id"`
	JobID     uuid.UUID         `json:"job_id"`
	Kind      RequirementKind   `json:"kind"`
	Text      string            `json:"text"`
	Embedding EmbeddingVector   `json:"embedding,omitempty"`
	Ordinal   int               `json:"ordinal"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// MustHave reports whether this unit counts against required coverage.
func (r *RequirementUnit) MustHave() bool {
	return r.Kind.MustHave()
}

// EvidenceUnit is one atomic, provenance-tracked claim extracted from a
// resume version. A resume may have multiple versions, each with its own
// evidence set; units are immutable once extracted.
type EvidenceUnit struct {
	ID              uuid.UUID         `json:"id"`
	ResumeVersionID uuid.UUID         `json:"resume_version_id"`
	Text            string            `json:"text"`
	Embedding       EmbeddingVector   `json:"embedding,omitempty"`
	Section         string            `json:"section"` // e.g. Summary, Skills, Experience, Projects, Education
	Ordinal         int               `json:"ordinal"`
	Tags            map[string]string `json:"tags,omitempty"`
	Provenance      string            `json:"provenance,omitempty"` // pointer back to the source text span
}
