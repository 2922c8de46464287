package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestPolicyMatchEmptyCorpus(t *testing.T) {
	m := BestPolicyMatch("anything", nil)
	assert.False(t, m.Found())
	assert.Equal(t, "", m.Policy)
	assert.Equal(t, 0.0, m.Score)
}

func TestBestPolicyMatchPicksHighest(t *testing.T) {
	corpus := PolicyCorpus{
		{Name: "a.txt", Text: "foo"},
		{Name: "b.txt", Text: "foo bar"},
	}
	m := BestPolicyMatch("foo bar", corpus)
	assert.Equal(t, "b.txt", m.Policy)
	assert.Equal(t, 100.0, m.Score)
}

func TestBestPolicyMatchFirstSeenWinsTie(t *testing.T) {
	corpus := PolicyCorpus{
		{Name: "first.txt", Text: "backup policy"},
		{Name: "second.txt", Text: "backup policy"},
	}
	assert.Equal(t, "first.txt", BestPolicyMatch("backup", corpus).Policy)

	reversed := PolicyCorpus{corpus[1], corpus[0]}
	assert.Equal(t, "second.txt", BestPolicyMatch("backup", reversed).Policy)
}

func TestBestPolicyMatchNoOverlap(t *testing.T) {
	corpus := PolicyCorpus{{Name: "a.txt", Text: "xyz"}}
	m := BestPolicyMatch("abc", corpus)
	assert.False(t, m.Found())
	assert.Equal(t, 0.0, m.Score)
}

func TestBestPolicyMatchRoundsScore(t *testing.T) {
	corpus := PolicyCorpus{{Name: "a.txt", Text: "abcd"}}
	// 2*2/6 = 0.6666...
	m := BestPolicyMatch("ab", corpus)
	assert.Equal(t, "a.txt", m.Policy)
	assert.Equal(t, 66.67, m.Score)
}

func TestPolicyCorpusNames(t *testing.T) {
	corpus := PolicyCorpus{{Name: "z.txt"}, {Name: "a.txt"}}
	assert.Equal(t, []string{"z.txt", "a.txt"}, corpus.Names())
}
