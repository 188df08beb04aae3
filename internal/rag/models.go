package rag

import "github.com/google/uuid"

// Provider
// One row of the CMS inpatient charge data: a hospital, one DRG it bills,
// and the average charge/payment figures for it. Loaded by the ETL,
// read-only everywhere else.
type Provider struct {
	ID                      uuid.UUID `json:"id"`
	ProviderID              string    `json:"providerId"`
	ProviderName            string    `json:"providerName"`
	ProviderCity            string    `json:"providerCity"`
	ProviderState           string    `json:"providerState"`
	ProviderZipCode         string    `json:"providerZipCode"`
	MSDRGDefinition         int       `json:"msDrgDefinition"`
	TotalDischarges         int       `json:"totalDischarges"`
	AverageCoveredCharges   float64   `json:"averageCoveredCharges"`
	AverageTotalPayments    float64   `json:"averageTotalPayments"`
	AverageMedicarePayments float64   `json:"averageMedicarePayments"`
	Latitude                *float64  `json:"latitude,omitempty"`
	Longitude               *float64  `json:"longitude,omitempty"`
	StarRating              int       `json:"starRating"`
}

// ScoredProvider pairs a provider with its similarity score for one query.
// Rank is 1-based in descending score order. Request-scoped; nothing
// persists these.
type ScoredProvider struct {
	Provider Provider
	Score    float64
	Rank     int
}

// AskRequest
// Payload of the /ask API.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse
// The answer text. Always present; the pipeline never surfaces a
// transport error in place of an answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// QueryFilters are the structured tokens a free-text question may carry:
// a DRG code, a zip code and a search radius around it.
type QueryFilters struct {
	DRG      *int
	Zip      string
	RadiusKm float64
}
