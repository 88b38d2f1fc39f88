package insight

import (
	"salesdash/domain/dataset"
	"salesdash/internal/normalize"
)

// HypothesisResult is one precomputed hypothesis test with its id-keyed
// metric payload
type HypothesisResult struct {
	ID             ID             `json:"id"`
	Question       string         `json:"question"`
	Hypothesis     string         `json:"hypothesis"`
	TestName       string         `json:"test"`
	PValue         dataset.Number `json:"p_value"`
	Significant    bool           `json:"significant"`
	Interpretation string         `json:"interpretation"`
	Recommendation string         `json:"recommendation"`
	Payload        Payload        `json:"metrics"`
}

// DecodeResult reads a hypothesis row. Rows whose id has no payload tag are
// rejected.
func DecodeResult(row dataset.Row) (HypothesisResult, bool) {
	id := ID(normalize.StringField(row, "id"))
	payload, ok := DecodePayload(id, row)
	if !ok {
		return HypothesisResult{}, false
	}
	return HypothesisResult{
		ID:             id,
		Question:       normalize.StringField(row, "question"),
		Hypothesis:     normalize.StringField(row, "hypothesis"),
		TestName:       normalize.StringField(row, "test"),
		PValue:         normalize.NumberField(row, "p_value"),
		Significant:    row.Get("significant").Bool(),
		Interpretation: normalize.StringField(row, "interpretation"),
		Recommendation: normalize.StringField(row, "recommendation"),
		Payload:        payload,
	}, true
}

// Badge is the two-state significance label. The state follows the
// significant flag only; the p-value is always shown.
func (r HypothesisResult) Badge() string {
	p := normalize.Exponential(r.PValue, 2)
	if r.Significant {
		return "Significant (p = " + p + ")"
	}
	return "Not Significant (p = " + p + ")"
}
