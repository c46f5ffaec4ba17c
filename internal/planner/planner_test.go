package planner_test

import (
	"testing"

	"github.com/phrazzld/scry-drill/internal/domain"
	"github.com/phrazzld/scry-drill/internal/domain/srs"
	"github.com/phrazzld/scry-drill/internal/planner"
	"github.com/phrazzld/scry-drill/internal/sampling"
	"github.com/phrazzld/scry-drill/internal/similarity"
	"github.com/phrazzld/scry-drill/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner(seed uint64) *planner.Planner {
	return planner.NewPlanner(
		sampling.NewCardSampler(nil, sampling.NewRand(seed), nil),
		sampling.NewDistractorSampler(0, sampling.NewRand(seed+1), nil),
		nil,
		sampling.NewRand(seed+2),
		nil,
	)
}

func plan(t *testing.T, p *planner.Planner, deck *domain.Deck, snap *srs.Snapshot, graph *similarity.Graph) planner.Question {
	t.Helper()

	q, err := p.Plan(deck, snap, graph, sampling.NewRecencyBuffer(5))
	require.NoError(t, err)
	require.NotNil(t, q)
	return q
}

func TestNewPlannerPanicsOnNilSamplers(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		planner.NewPlanner(nil, sampling.NewDistractorSampler(0, nil, nil), nil, nil, nil)
	})
	assert.Panics(t, func() {
		planner.NewPlanner(sampling.NewCardSampler(nil, nil, nil), nil, nil, nil, nil)
	})
}

func TestPlanMultipleChoiceShape(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t,
		testutils.WithSideNames("word", "meaning", "example"),
		testutils.WithRows([][]string{
			{"chat", "cat", "le chat dort"},
			{"chien", "dog", "le chien court"},
			{"oiseau", "bird", "l'oiseau chante"},
			{"poisson", "fish", "le poisson nage"},
		}),
		testutils.WithTypableSides(),
	)
	p := newPlanner(1)

	for i := 0; i < 200; i++ {
		q := plan(t, p, deck, testutils.UniformSnapshot(deck, 0), nil)
		require.Equal(t, domain.QuestionMultipleChoice, q.Format())

		mc, ok := q.(*planner.MultipleChoice)
		require.True(t, ok)

		front, back := mc.Sides()
		assert.NotEqual(t, front, back)
		assert.Equal(t, deck.SideName(front), mc.FrontName)
		assert.Equal(t, deck.SideName(back), mc.BackName)
		assert.Equal(t, mc.Target().Sides[front], mc.Front)

		require.Len(t, mc.Choices, 3)
		require.Len(t, mc.ChoiceCards, 3)
		assert.Equal(t, mc.Target().ID, mc.ChoiceCards[mc.CorrectIndex].ID)
		assert.True(t, mc.IsCorrect(mc.CorrectIndex))
		for j, c := range mc.ChoiceCards {
			assert.Equal(t, c.Sides[back], mc.Choices[j])
		}

		alts := mc.Alternatives()
		require.Len(t, alts, 2)
		assert.NotContains(t, alts, mc.Target().ID)
	}
}

func TestPlanCorrectIndexIsShuffled(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(5), testutils.WithTypableSides())
	p := newPlanner(2)

	positions := make(map[int]int)
	for i := 0; i < 300; i++ {
		mc := plan(t, p, deck, testutils.UniformSnapshot(deck, 0), nil).(*planner.MultipleChoice)
		positions[mc.CorrectIndex]++
	}
	assert.Len(t, positions, 3)
	for _, n := range positions {
		assert.InDelta(t, 100, n, 40)
	}
}

func TestPlanTypedShape(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t,
		testutils.WithSideNames("flag", "country", "capital"),
		testutils.WithRows([][]string{
			{"img:fr.png", "France", "Paris"},
			{"img:jp.png", "Japan", "Tokyo"},
		}),
		testutils.WithTypableSides(1, 2),
	)
	p := newPlanner(3)

	backs := make(map[int]int)
	for i := 0; i < 200; i++ {
		q := plan(t, p, deck, testutils.UniformSnapshot(deck, 0), nil)
		require.Equal(t, domain.QuestionTyped, q.Format(), "two-card decks cannot offer distractors")

		typed := q.(*planner.Typed)
		front, back := typed.Sides()
		assert.True(t, deck.IsTypable(back))
		assert.NotEqual(t, front, back)
		assert.Equal(t, typed.Target().Sides[back].Value, typed.Answer)
		assert.Equal(t, typed.Target().Sides, typed.All)
		backs[back]++
	}
	assert.Len(t, backs, 2)
}

func TestPlanNoQuestionFormat(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(2), testutils.WithTypableSides())
	recent := sampling.NewRecencyBuffer(5)

	_, err := newPlanner(4).Plan(deck, testutils.UniformSnapshot(deck, 0), nil, recent)
	assert.ErrorIs(t, err, planner.ErrNoQuestionFormat)
	assert.Zero(t, recent.Len(), "no card is consumed when planning fails")
}

func TestPlanFormatProbability(t *testing.T) {
	t.Parallel()

	deck := testutils.MustCreateDeckForTest(t, testutils.WithNumCards(6))
	all := make([]string, deck.Len())
	for i := range all {
		all[i] = deck.Cards[i].Sides[0].Value
	}
	similarAll, err := similarity.Build(deck.Len(), similarity.SideIndex(deck), [][]string{all})
	require.NoError(t, err)

	tests := []struct {
		name   string
		value  float64
		graph  *similarity.Graph
		wantMC float64
		delta  float64
	}{
		{"unknown cards are always multiple choice", 0, nil, 1, 0},
		{"mastered cards use the floor", 1, nil, 0.05, 0.03},
		{"mastered similar cards use the similar floor", 1, similarAll, 0.5, 0.06},
		{"half-known cards", 0.7, nil, 0.3, 0.06},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newPlanner(5)
			snap := testutils.UniformSnapshot(deck, tt.value)
			const n = 2000
			mc := 0
			for i := 0; i < n; i++ {
				if plan(t, p, deck, snap, tt.graph).Format() == domain.QuestionMultipleChoice {
					mc++
				}
			}
			assert.InDelta(t, tt.wantMC, float64(mc)/n, tt.delta)
		})
	}
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, planner.NewDefaultParams().Validate())
	assert.ErrorIs(t, (&planner.Params{SimilarMCFloor: 1.2}).Validate(), planner.ErrInvalidParams)
	assert.ErrorIs(t, (&planner.Params{MCFloor: -0.1}).Validate(), planner.ErrInvalidParams)
}
