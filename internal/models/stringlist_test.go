package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinList_DropsEmptiesPreservesOrder(t *testing.T) {
	blob := JoinList([]string{"Sci-Fi", "", "  ", "Drama", "Thriller"})
	assert.Equal(t, "Sci-Fi|Drama|Thriller", blob)
	assert.Equal(t, []string{"Sci-Fi", "Drama", "Thriller"}, SplitList(blob))
}

func TestSplitList_Empty(t *testing.T) {
	assert.Nil(t, SplitList(""))
}

func TestItemGenreRoundTrip(t *testing.T) {
	item := &Item{}
	item.SetGenres([]string{"Fantasy", "Adventure"})
	assert.Equal(t, []string{"Fantasy", "Adventure"}, item.GenreList())
}
