package sampling_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/sampling"
	"github.com/phrazzld/scry-drill/internal/similarity"
	"github.com/phrazzld/scry-drill/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, deck *domain.Deck, groups ...[]string) *similarity.Graph {
	t.Helper()

	g, err := similarity.Build(deck.Len(), similarity.SideIndex(deck), groups)
	require.NoError(t, err)
	return g
}

// neverExplore keeps exploration negligible so tests exercise rejection sampling.
func neverExplore(cfg sampling.ParamsConfig) *sampling.Params {
	cfg.MaxUniformProb = 1e-12
	return sampling.NewParams(cfg)
}

func TestSelectNextFreshDeckReachesEveryCard(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(10))
	snap := testutils.UniformSnapshot(deck, 0)
	sampler := sampling.NewCardSampler(nil, sampling.NewRand(1), nil)

	counts := make(map[uuid.UUID]int)
	for i := 0; i < 2000; i++ {
		card, sel := sampler.SelectNext(deck, snap, similarity.Empty(deck.Len()), sampling.NewRecencyBuffer(5))
		assert.Equal(t, sampling.SelectedRejection, sel.Kind)
		assert.Equal(t, 1, sel.Trials, "score zero is accepted on the first pass")
		counts[card.ID]++
	}

	require.Len(t, counts, 10, "every card must be reachable")
	for _, n := range counts {
		assert.InDelta(t, 200, n, 80)
	}
}

func TestSelectNextExplorationScalesWithMastery(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(10))

	mastered := func(n int) map[int]float64 {
		values := make(map[int]float64, n)
		for i := range n {
			values[i] = 1
		}
		return values
	}

	tests := []struct {
		name     string
		mastered int
		exponent float64
		want     float64
	}{
		{"nothing mastered never explores", 0, 1, 0},
		{"half mastered", 5, 1, 0.25},
		{"half mastered squared", 5, 2, 0.125},
		{"everything mastered", 10, 1, 0.5},
	}

	const draws = 4000
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := sampling.NewParams(sampling.ParamsConfig{
				MaxUniformProb:  0.5,
				MasteryExponent: tt.exponent,
				MaxTrials:       1,
			})
			snap := testutils.SnapshotWithValues(deck, mastered(tt.mastered))
			require.Equal(t, tt.mastered, snap.NumMastered)
			sampler := sampling.NewCardSampler(params, sampling.NewRand(7), nil)

			explored := 0
			for range draws {
				_, sel := sampler.SelectNext(deck, snap, similarity.Empty(deck.Len()), sampling.NewRecencyBuffer(5))
				if sel.Kind == sampling.SelectedExploration {
					explored++
				}
			}

			if tt.want == 0 {
				assert.Zero(t, explored)
				return
			}
			assert.InDelta(t, tt.want, float64(explored)/draws, 0.03)
		})
	}
}

func TestSelectNextRespectsRecency(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(10))

	tests := []struct {
		name   string
		params *sampling.Params
		value  float64
		kind   sampling.SelectionKind
	}{
		{"rejection", nil, 0.3, sampling.SelectedRejection},
		{"exploration", sampling.NewParams(sampling.ParamsConfig{MaxUniformProb: 1}), 1, sampling.SelectedExploration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			snap := testutils.UniformSnapshot(deck, tt.value)
			sampler := sampling.NewCardSampler(tt.params, sampling.NewRand(7), nil)
			recent := sampling.NewRecencyBuffer(5)

			for i := 0; i < 500; i++ {
				before := recent.IDs()
				card, sel := sampler.SelectNext(deck, snap, nil, recent)

				assert.Equal(t, tt.kind, sel.Kind)
				assert.NotContains(t, before, card.ID, "iteration %d selected a recent card", i)
				assert.True(t, recent.Contains(card.ID))
			}
		})
	}
}

func TestSelectNextPrefersLowScores(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(2))
	snap := testutils.SnapshotWithValues(deck, map[int]float64{0: 0.9, 1: 0.1})
	sampler := sampling.NewCardSampler(nil, sampling.NewRand(3), nil)

	weak := 0
	for i := 0; i < 1000; i++ {
		card, _ := sampler.SelectNext(deck, snap, nil, sampling.NewRecencyBuffer(0))
		if card.Index == 1 {
			weak++
		}
	}
	assert.Greater(t, weak, 800)
}

func TestSelectNextSubstitutionFrequency(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(4))
	graph := buildGraph(t, deck, []string{"front-0", "front-1", "front-2"})
	// Only card 0 can pass rejection sampling.
	snap := testutils.SnapshotWithValues(deck, map[int]float64{0: 0, 1: 1, 2: 1, 3: 1})
	sampler := sampling.NewCardSampler(neverExplore(sampling.ParamsConfig{}), sampling.NewRand(11), nil)

	const iterations = 3000
	kept := 0
	substitutes := make(map[int]int)
	for i := 0; i < iterations; i++ {
		card, sel := sampler.SelectNext(deck, snap, graph, sampling.NewRecencyBuffer(5))
		require.Equal(t, 0, sel.Original.Index)
		if !sel.Substituted {
			assert.Equal(t, 0, card.Index)
			kept++
			continue
		}
		substitutes[card.Index]++
	}

	// Two similar cards: the original survives with probability 1/(n+1) = 1/3.
	assert.InDelta(t, iterations/3, kept, 120)
	assert.Len(t, substitutes, 2)
	assert.InDelta(t, substitutes[1], substitutes[2], 200)
	assert.Zero(t, substitutes[3])
}

func TestSelectNextKeepsOriginalWhenSubstituteRecent(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(4))
	graph := buildGraph(t, deck, []string{"front-0", "front-1"})
	snap := testutils.SnapshotWithValues(deck, map[int]float64{0: 0, 1: 0, 2: 1, 3: 1})
	sampler := sampling.NewCardSampler(neverExplore(sampling.ParamsConfig{}), sampling.NewRand(5), nil)

	for i := 0; i < 200; i++ {
		recent := sampling.NewRecencyBuffer(5)
		recent.Push(deck.Cards[1].ID)

		card, sel := sampler.SelectNext(deck, snap, graph, recent)
		assert.Equal(t, 0, card.Index)
		assert.False(t, sel.Substituted)
	}
}

func TestSelectNextExhaustion(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(6))
	snap := testutils.UniformSnapshot(deck, 1)
	sampler := sampling.NewCardSampler(neverExplore(sampling.ParamsConfig{MaxTrials: 3}), sampling.NewRand(9), nil)

	seen := make(map[int]bool)
	for i := 0; i < 300; i++ {
		card, sel := sampler.SelectNext(deck, snap, nil, sampling.NewRecencyBuffer(2))
		assert.Equal(t, sampling.SelectedExhausted, sel.Kind)
		assert.Equal(t, 3, sel.Trials)
		seen[card.Index] = true
	}
	assert.Len(t, seen, 6, "the fallback is uniform over the whole deck")
}

func TestSelectNextAllCardsRecent(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(3))
	snap := testutils.UniformSnapshot(deck, 0)
	sampler := sampling.NewCardSampler(nil, sampling.NewRand(2), nil)

	recent := sampling.NewRecencyBuffer(5)
	for _, c := range deck.Cards {
		recent.Push(c.ID)
	}

	card, sel := sampler.SelectNext(deck, snap, nil, recent)
	require.NotNil(t, card)
	assert.Equal(t, sampling.SelectedExhausted, sel.Kind)
	assert.Zero(t, sel.Trials)
}

func TestSelectNextDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(8))
	snap := testutils.UniformSnapshot(deck, 0.4)

	run := func() []uuid.UUID {
		sampler := sampling.NewCardSampler(nil, sampling.NewRand(42), nil)
		recent := sampling.NewRecencyBuffer(3)
		ids := make([]uuid.UUID, 0, 50)
		for i := 0; i < 50; i++ {
			card, _ := sampler.SelectNext(deck, snap, nil, recent)
			ids = append(ids, card.ID)
		}
		return ids
	}

	assert.Equal(t, run(), run())
}
