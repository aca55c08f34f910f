package affinity

import (
	"sync"
	"testing"
)

var trainingCorpus = []string{
	"A challenging action role-playing game set in a dark fantasy world full of dragons.",
	"Explore a vast open world, slay dragons and uncover ancient fantasy ruins.",
	"A punishing souls-like adventure through a crumbling dark kingdom.",
	"Fast paced roguelike dungeon crawler with permadeath and deep builds.",
	"A cozy farming simulator about growing crops and befriending villagers.",
	"Tactical turn-based battles against mythical beasts in a fantasy realm.",
	"An atmospheric exploration game across a ruined open world full of secrets.",
}

func newTrainedModel(t *testing.T) *Model {
	t.Helper()
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	m.Train(trainingCorpus)
	if !m.Trained() {
		t.Fatal("expected model to train")
	}
	return m
}

func TestScoreUntrained(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}

	if got := m.Score("anything at all"); got != 0.0 {
		t.Errorf("untrained model should score 0, got %v", got)
	}

	// Too few documents must also leave the model untrained.
	m.Train(trainingCorpus[:3])
	if m.Trained() {
		t.Error("expected model to stay untrained on a tiny corpus")
	}
	if got := m.Score("dark fantasy dragons"); got != 0.0 {
		t.Errorf("expected 0 score, got %v", got)
	}
}

func TestScoreEmptyText(t *testing.T) {
	m := newTrainedModel(t)
	if got := m.Score(""); got != 0.0 {
		t.Errorf("empty text should score 0, got %v", got)
	}
}

func TestScoreRange(t *testing.T) {
	m := newTrainedModel(t)
	for _, text := range append(trainingCorpus, "completely unrelated sports broadcast software") {
		got := m.Score(text)
		if got < 0.0 || got > 1.0 {
			t.Errorf("score out of range for %q: %v", text, got)
		}
	}
}

func TestScoreRanksSimilarTextHigher(t *testing.T) {
	m := newTrainedModel(t)

	similar := m.Score("A dark fantasy action game where you slay dragons across an open world.")
	unrelated := m.Score("Manage a football team through the transfer market and league season.")

	if similar <= unrelated {
		t.Errorf("expected similar text to outscore unrelated text: %v <= %v", similar, unrelated)
	}
	if similar <= 0 {
		t.Errorf("expected positive similarity, got %v", similar)
	}
}

func TestScoreUnknownVocabulary(t *testing.T) {
	m := newTrainedModel(t)
	if got := m.Score("zzzzx qqqqy wwwwz"); got != 0.0 {
		t.Errorf("text with no known terms should score 0, got %v", got)
	}
}

func TestRetrainResets(t *testing.T) {
	m := newTrainedModel(t)
	m.Train(nil)
	if m.Trained() {
		t.Error("expected retraining on empty corpus to reset the model")
	}
}

func TestConcurrentTrainAndScore(t *testing.T) {
	// A single model is shared across requests, so scoring must stay safe
	// while another request retrains it.
	m := newTrainedModel(t)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				m.Train(trainingCorpus)
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				got := m.Score("dark fantasy dragons in an open world")
				if got < 0.0 || got > 1.0 {
					t.Errorf("score out of range: %v", got)
				}
			}
		}()
	}
	wg.Wait()
}
