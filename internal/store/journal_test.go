package store

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvaluation() Evaluation {
	return Evaluation{
		RecordedAt:   1583586000000,
		Source:       "operate",
		Zone:         "America/Los_Angeles",
		Input:        "2020-03-07T05:00:00",
		InputInstant: 1583586000000,
		Steps:        []string{"subtract:day:1", "set:hour:3"},
		Extract:      map[string]string{"hour": "3", "day": "5"},
		Result:       1583463600000,
	}
}

func TestAppend_AssignsIDSeqDigest(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	first, err := s.Append(ctx, sampleEvaluation())
	require.NoError(t, err)

	id, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, int64(1), first.Seq)
	assert.Len(t, first.Digest, 64)

	second, err := s.Append(ctx, sampleEvaluation())
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Digest, second.Digest)
}

func TestAppend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewSequenceGenerator("eval-1")))

	in := sampleEvaluation()
	stored, err := s.Append(ctx, in)
	require.NoError(t, err)

	got, err := s.Get(ctx, "eval-1")
	require.NoError(t, err)
	assert.Equal(t, stored, got)
	assert.Equal(t, in.Steps, got.Steps)
	assert.Equal(t, in.Extract, got.Extract)
	assert.Equal(t, in.Result, got.Result)
	assert.Equal(t, "operate", got.Source)
}

func TestAppend_DuplicateIDIgnored(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	e := sampleEvaluation()
	e.ID = "fixed"
	_, err := s.Append(ctx, e)
	require.NoError(t, err)

	e.Source = "recipe:other"
	again, err := s.Append(ctx, e)
	require.NoError(t, err)
	assert.Equal(t, "operate", again.Source)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppend_EmptyStepsAndExtract(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	got, err := s.Append(ctx, Evaluation{Source: "parse", Zone: "UTC", Input: "2020-01-01"})
	require.NoError(t, err)
	assert.Empty(t, got.Steps)
	assert.Empty(t, got.Extract)

	withEmpty := Evaluation{Zone: "UTC", Input: "2020-01-01", Steps: []string{}, Extract: map[string]string{}}
	d1, err := withEmpty.ComputeDigest()
	require.NoError(t, err)
	assert.Equal(t, got.Digest, d1)
}

func TestDigest_IgnoresBookkeeping(t *testing.T) {
	a := sampleEvaluation()
	b := sampleEvaluation()
	b.ID, b.Seq, b.RecordedAt, b.Source = "x", 99, 1, "recipe:x"

	da, err := a.ComputeDigest()
	require.NoError(t, err)
	db, err := b.ComputeDigest()
	require.NoError(t, err)
	assert.Equal(t, da, db)

	b.Steps = []string{"set:hour:3", "subtract:day:1"}
	dc, err := b.ComputeDigest()
	require.NoError(t, err)
	assert.NotEqual(t, da, dc)
}

func TestRecent_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t, WithIDGenerator(NewSequenceGenerator("a", "b", "c")))

	for _, zone := range []string{"UTC", "Asia/Tokyo", "Europe/Paris"} {
		e := sampleEvaluation()
		e.Zone = zone
		_, err := s.Append(ctx, e)
		require.NoError(t, err)
	}

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "Europe/Paris", all[0].Zone)

	two, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
	assert.Equal(t, "c", two[0].ID)
}

func TestFindByDigest(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	first, err := s.Append(ctx, sampleEvaluation())
	require.NoError(t, err)
	other := sampleEvaluation()
	other.Zone = "UTC"
	_, err = s.Append(ctx, other)
	require.NoError(t, err)
	third, err := s.Append(ctx, sampleEvaluation())
	require.NoError(t, err)

	found, err := s.FindByDigest(ctx, first.Digest)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.ID, found[0].ID)
	assert.Equal(t, third.ID, found[1].ID)

	none, err := s.FindByDigest(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGet_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReads_ClosedStore(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.Get(ctx, "any")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "get evaluation")

	_, err = s.Recent(ctx, 5)
	assert.ErrorContains(t, err, "recent evaluations")

	_, err = s.FindByDigest(ctx, "any")
	assert.ErrorContains(t, err, "find by digest")
}

func TestAppend_ConcurrentSeqUnique(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Append(ctx, sampleEvaluation())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 20)
	for i, e := range all {
		assert.Equal(t, int64(20-i), e.Seq)
	}
}

func TestSequenceGenerator_Exhausted(t *testing.T) {
	g := NewSequenceGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
