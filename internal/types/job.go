package types

import "github.com/google/uuid"

// Canonical facet keys for Want Score comparison. A job may carry any
// subset; unknown keys are still scored when present.
const (
	FacetRemoteFlexibility = "remote_flexibility"
	FacetCompensation      = "compensation"
	FacetLearningGrowth    = "learning_growth"
	FacetCompanyCulture    = "company_culture"
	FacetWorkLifeBalance   = "work_life_balance"
	FacetTechStack         = "tech_stack"
	FacetVisaSponsorship   = "visa_sponsorship"
)

// FacetKeys lists the canonical facet keys in their stable scoring order.
var FacetKeys = []string{
	FacetRemoteFlexibility,
	FacetCompensation,
	FacetLearningGrowth,
	FacetCompanyCulture,
	FacetWorkLifeBalance,
	FacetTechStack,
	FacetVisaSponsorship,
}

// JobFacet is a structured job attribute (location, seniority, culture,
// etc.) represented as an embedding for preference alignment.
type JobFacet struct {
	Key       string          `json:"key"`
	Embedding EmbeddingVector `json:"embedding,omitempty"`
}

// JobPosting is the scored side of a match: a posting with its summary
// embedding, extracted requirement units, and facet embeddings. The
// extraction collaborator produces all embeddings; the engine never
// computes job-side embeddings itself.
type JobPosting struct {
	ID               uuid.UUID        `json:"id"`
	Company          string           `json:"company"`
	Title            string           `json:"title"`
	SummaryEmbedding EmbeddingVector  `json:"summary_embedding,omitempty"`
	Requirements     []RequirementUnit `json:"requirements"`
	Facets           []JobFacet       `json:"facets,omitempty"`
}
