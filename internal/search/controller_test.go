package search

import (
	"testing"

	"github.com/hellausefulsoftware/quicknotes/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issues(numbers ...int) []models.Issue {
	result := make([]models.Issue, 0, len(numbers))
	for _, n := range numbers {
		result = append(result, models.Issue{Number: n})
	}
	return result
}

func TestRapidKeystrokesOnlyLatestFires(t *testing.T) {
	c := New()

	gen1, schedule := c.Change("q1")
	require.True(t, schedule)

	gen2, schedule := c.Change("q2")
	require.True(t, schedule)

	// Q1's timer elapses after Q2 superseded it: no request may go out.
	_, ok := c.Fire(gen1)
	assert.False(t, ok)

	query, ok := c.Fire(gen2)
	require.True(t, ok)
	assert.Equal(t, "q2", query)
}

func TestStaleCompletionNeverOverwritesNewerResults(t *testing.T) {
	c := New()

	gen1, _ := c.Change("q1")
	gen2, _ := c.Change("q2")

	require.True(t, c.Accept(gen2, issues(2)))

	// Q1's response arrives late. It must be discarded.
	assert.False(t, c.Accept(gen1, issues(1)))
	assert.Equal(t, issues(2), c.Results())
	assert.False(t, c.Searching())
}

func TestEmptyQueryClearsSynchronously(t *testing.T) {
	c := New()

	gen, _ := c.Change("bug")
	require.True(t, c.Accept(gen, issues(1, 2)))

	_, schedule := c.Change("   ")
	assert.False(t, schedule)
	assert.Empty(t, c.Results())
	assert.False(t, c.Searching())

	// The previous generation was invalidated too.
	_, ok := c.Fire(gen)
	assert.False(t, ok)
}

func TestSearchingFlagLifecycle(t *testing.T) {
	c := New()

	gen, _ := c.Change("bug")
	assert.True(t, c.Searching())

	_, ok := c.Fire(gen)
	require.True(t, ok)
	assert.True(t, c.Searching())

	c.Accept(gen, issues(7))
	assert.False(t, c.Searching())
}

func TestFailureIsSilentEmptyList(t *testing.T) {
	c := New()

	gen, _ := c.Change("bug")
	c.Fail(gen)

	assert.Empty(t, c.Results())
	assert.False(t, c.Searching())
}

func TestStaleFailureIgnored(t *testing.T) {
	c := New()

	gen1, _ := c.Change("q1")
	gen2, _ := c.Change("q2")
	require.True(t, c.Accept(gen2, issues(2)))

	c.Fail(gen1)
	assert.Equal(t, issues(2), c.Results())
}

func TestClearInvalidatesPendingWork(t *testing.T) {
	c := New()

	gen, _ := c.Change("bug")
	c.Clear()

	_, ok := c.Fire(gen)
	assert.False(t, ok)
	assert.False(t, c.Accept(gen, issues(1)))
	assert.Empty(t, c.Results())
}

func TestQueryIsTrimmed(t *testing.T) {
	c := New()

	gen, _ := c.Change("  login bug  ")
	query, ok := c.Fire(gen)
	require.True(t, ok)
	assert.Equal(t, "login bug", query)
}

func TestComposeQuery(t *testing.T) {
	repo := models.RepositoryRef{Owner: "octocat", Name: "notes"}
	assert.Equal(t, "repo:octocat/notes login bug in:title,body", ComposeQuery(repo, "login bug"))
}
