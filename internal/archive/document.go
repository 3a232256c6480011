package archive

import (
	"encoding/json"
	"math"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// WordDocument is the serialized form of a word. Pointer fields are nil when
// absent from the input so callers can tell "missing" from "zero". A stage or
// time that cannot be read also decodes as nil.
type WordDocument struct {
	ID           *int64     `json:"id,omitempty"`
	GroupID      *int64     `json:"groupId,omitempty"`
	Term         string     `json:"term" validate:"notblank"`
	Definition   string     `json:"definition" validate:"notblank"`
	StageIndex   *int       `json:"stageIndex,omitempty"`
	NextReviewAt *Timestamp `json:"nextReviewAt,omitempty"`
	CreatedAt    *Timestamp `json:"createdAt,omitempty"`

	// Older backups used these names.
	IntervalIndex *int       `json:"intervalIndex,omitempty"`
	NextReview    *Timestamp `json:"nextReview,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Unreadable schedule fields are
// dropped instead of failing the whole group.
func (w *WordDocument) UnmarshalJSON(data []byte) error {
	type plain WordDocument
	var aux struct {
		plain
		StageIndex    json.RawMessage `json:"stageIndex"`
		NextReviewAt  json.RawMessage `json:"nextReviewAt"`
		CreatedAt     json.RawMessage `json:"createdAt"`
		IntervalIndex json.RawMessage `json:"intervalIndex"`
		NextReview    json.RawMessage `json:"nextReview"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WordDocument(aux.plain)
	w.StageIndex = lenientInt(aux.StageIndex)
	w.IntervalIndex = lenientInt(aux.IntervalIndex)
	w.NextReviewAt = lenientTimestamp(aux.NextReviewAt)
	w.NextReview = lenientTimestamp(aux.NextReview)
	w.CreatedAt = lenientTimestamp(aux.CreatedAt)
	return nil
}

func lenientInt(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) ||
		f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}

func lenientTimestamp(raw json.RawMessage) *Timestamp {
	if len(raw) == 0 {
		return nil
	}
	var ts Timestamp
	if err := ts.UnmarshalJSON(raw); err != nil || ts.IsZero() {
		return nil
	}
	return &ts
}

// Stage returns the stage index, falling back to the legacy key.
func (w WordDocument) Stage() *int {
	if w.StageIndex != nil {
		return w.StageIndex
	}
	return w.IntervalIndex
}

// Due returns the next review time, falling back to the legacy key.
func (w WordDocument) Due() *Timestamp {
	if w.NextReviewAt != nil {
		return w.NextReviewAt
	}
	return w.NextReview
}

// GroupDocument is the serialized form of a group and the unit stored in
// each container entry.
type GroupDocument struct {
	ID    *int64         `json:"id,omitempty"`
	Name  string         `json:"name" validate:"notblank"`
	Words []WordDocument `json:"words" validate:"dive"`
}

// BundleDocument holds several groups in one JSON document.
type BundleDocument struct {
	Groups []GroupDocument `json:"groups"`
}

// FromGroup converts a domain group into its document form.
func FromGroup(g domain.Group) GroupDocument {
	id := g.ID
	doc := GroupDocument{
		ID:    &id,
		Name:  g.Name,
		Words: make([]WordDocument, 0, len(g.Words)),
	}
	for _, w := range g.Words {
		wid, gid, stage := w.ID, w.GroupID, w.StageIndex
		doc.Words = append(doc.Words, WordDocument{
			ID:           &wid,
			GroupID:      &gid,
			Term:         w.Term,
			Definition:   w.Definition,
			StageIndex:   &stage,
			NextReviewAt: NewTimestamp(w.NextReviewAt),
			CreatedAt:    NewTimestamp(w.CreatedAt),
		})
	}
	return doc
}
