package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRelevance struct {
	relevant bool
	err      error
	calls    int
}

func (f *fakeRelevance) ClassifyRelevance(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.relevant, f.err
}

func TestClassifierKeywordFallback(t *testing.T) {
	c := NewClassifier(nil)
	ctx := context.Background()

	t.Run("domain keywords are relevant", func(t *testing.T) {
		questions := []string{
			"Which hospitals have the highest star ratings?",
			"How much does heart surgery cost?",
			"best rated PROVIDER in Texas",
			"average medicare payment for DRG 470",
		}
		for _, q := range questions {
			assert.True(t, c.Relevant(ctx, q), "expected relevant: %q", q)
		}
	})

	t.Run("off-topic questions are not relevant", func(t *testing.T) {
		questions := []string{
			"How is the weather today?",
			"Who won the game last night?",
			"what time is it in Tokyo",
		}
		for _, q := range questions {
			assert.False(t, c.Relevant(ctx, q), "expected not relevant: %q", q)
		}
	})

	t.Run("blank question is never relevant", func(t *testing.T) {
		assert.False(t, c.Relevant(ctx, ""))
		assert.False(t, c.Relevant(ctx, "   \t\n"))
	})
}

func TestClassifierWithAI(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the model verdict", func(t *testing.T) {
		ai := &fakeRelevance{relevant: false}
		c := NewClassifier(ai)

		// question full of keywords, but the model says no
		assert.False(t, c.Relevant(ctx, "hospital cost rating provider"))
		assert.Equal(t, 1, ai.calls)
	})

	t.Run("transport error degrades to keywords", func(t *testing.T) {
		ai := &fakeRelevance{err: errors.New("boom")}
		c := NewClassifier(ai)

		assert.True(t, c.Relevant(ctx, "cheapest hospital for knee surgery"))
		assert.False(t, c.Relevant(ctx, "how is the weather today?"))
	})
}

func TestContainsHealthcareKeyword(t *testing.T) {
	assert.True(t, ContainsHealthcareKeyword("HOSPITAL"))
	assert.True(t, ContainsHealthcareKeyword("my heart hurts"))
	assert.False(t, ContainsHealthcareKeyword("sunny with a chance of rain"))
}
