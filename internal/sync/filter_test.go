package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketFields(r testRec) []string { return []string{r.Name} }
func ticketStatus(r testRec) string   { return r.Status }

func TestSearch(t *testing.T) {
	records := []testRec{
		{ID: "1", Name: "Music bot crashes on skip"},
		{ID: "2", Name: "Billing question"},
		{ID: "3", Name: "MUSIC playback stutters"},
	}

	got := Filter(records, Search("music", ticketFields))
	require.Len(t, got, 2, "search is case-insensitive")
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	// empty term matches everything
	assert.Len(t, Filter(records, Search("", ticketFields)), 3)

	// filtering is a pure view: applying the same matcher twice is stable
	again := Filter(records, Search("music", ticketFields))
	assert.Equal(t, got, again)
	assert.Len(t, records, 3, "input slice is untouched")
}

func TestStatus(t *testing.T) {
	records := []testRec{
		{ID: "1", Status: "open"},
		{ID: "2", Status: "resolved"},
		{ID: "3", Status: "open"},
	}

	assert.Len(t, Filter(records, Status("open", ticketStatus)), 2)
	assert.Len(t, Filter(records, Status("resolved", ticketStatus)), 1)
	assert.Empty(t, Filter(records, Status("closed", ticketStatus)))

	// "all" and empty are pass-through sentinels
	assert.Len(t, Filter(records, Status("all", ticketStatus)), 3)
	assert.Len(t, Filter(records, Status("", ticketStatus)), 3)
}

func TestAnd(t *testing.T) {
	records := []testRec{
		{ID: "1", Name: "Music bot offline", Status: "open"},
		{ID: "2", Name: "Music bot lagging", Status: "resolved"},
		{ID: "3", Name: "Dashboard 500s", Status: "open"},
	}

	got := Filter(records, And(
		Search("music", ticketFields),
		Status("open", ticketStatus),
	))
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	// no matchers means everything passes
	assert.Len(t, Filter(records, And[testRec]()), 3)
}
