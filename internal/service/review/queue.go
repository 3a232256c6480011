package review

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
)

// Item is a queue-local copy of a word plus the direction it is asked in.
// Changing an Item never affects the library.
type Item struct {
	Word      domain.Word
	GroupName string
	Direction domain.Direction
}

// Shown is the side of the word presented to the user.
func (it Item) Shown() string {
	shown, _ := it.Word.Side(it.Direction)
	return shown
}

// Expected is the side of the word the user must answer with.
func (it Item) Expected() string {
	_, expected := it.Word.Side(it.Direction)
	return expected
}

// QueueBuilder turns a library snapshot into a review queue.
type QueueBuilder struct {
	params    *srs.Params
	now       func() time.Time
	direction domain.Direction

	mu  sync.Mutex
	rng *rand.Rand
}

// BuilderOption configures a QueueBuilder.
type BuilderOption func(*QueueBuilder)

// WithRand sets the random source used for directions and shuffling.
func WithRand(r *rand.Rand) BuilderOption {
	return func(b *QueueBuilder) { b.rng = r }
}

// WithNow replaces time.Now for due checks.
func WithNow(now func() time.Time) BuilderOption {
	return func(b *QueueBuilder) { b.now = now }
}

// WithDirection asks every item in d instead of a random direction.
func WithDirection(d domain.Direction) BuilderOption {
	return func(b *QueueBuilder) { b.direction = d }
}

// NewQueueBuilder creates a QueueBuilder for the given ladder.
func NewQueueBuilder(params *srs.Params, opts ...BuilderOption) *QueueBuilder {
	b := &QueueBuilder{
		params: params,
		now:    time.Now,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build selects words for mode and returns them as a queue. groupID is only
// used by ModeGroupForced. An empty selection is ErrNothingToReview.
func (b *QueueBuilder) Build(lib *domain.Library, mode Mode, groupID int64) ([]Item, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	var items []Item
	switch mode {
	case ModeDue:
		now := b.now()
		for _, g := range lib.Groups {
			for _, w := range g.Words {
				if b.params.IsDue(w, now) {
					items = append(items, Item{Word: w, GroupName: g.Name})
				}
			}
		}
	case ModeAll, ModeShuffledAll:
		for _, g := range lib.Groups {
			for _, w := range g.Words {
				items = append(items, Item{Word: w, GroupName: g.Name})
			}
		}
	case ModeGroupForced:
		g := lib.FindGroup(groupID)
		if g == nil {
			return nil, fmt.Errorf("%w: group %d", domain.ErrNotFound, groupID)
		}
		for _, w := range g.Words {
			items = append(items, Item{Word: w, GroupName: g.Name})
		}
	}

	if len(items) == 0 {
		return nil, ErrNothingToReview
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range items {
		items[i].Direction = b.pickDirection()
	}
	if mode == ModeShuffledAll {
		b.rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
	}
	return items, nil
}

func (b *QueueBuilder) pickDirection() domain.Direction {
	if b.direction != 0 {
		return b.direction
	}
	if b.rng.IntN(2) == 0 {
		return domain.PromptWithTerm
	}
	return domain.PromptWithDefinition
}
