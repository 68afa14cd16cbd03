package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeckComposition(t *testing.T) {
	d := NewDeck()
	require.Equal(t, DeckSize, d.Remaining())

	seen := map[int32]struct{}{}
	for !d.IsEmpty() {
		c, ok := d.Draw()
		require.True(t, ok)
		require.True(t, ValidCard(c), "card %d", c)

		rank := RankOf(c)
		require.NotEqual(t, int32(8), rank)
		require.NotEqual(t, int32(9), rank)

		_, dup := seen[c]
		require.False(t, dup, "duplicate card %d", c)
		seen[c] = struct{}{}
	}
	require.Len(t, seen, DeckSize)

	_, ok := d.Draw()
	require.False(t, ok)
}

func TestDeckShufflePreservesCards(t *testing.T) {
	d := NewDeck()
	d.Shuffle()

	seen := map[int32]struct{}{}
	for _, c := range d.Deal(DeckSize) {
		seen[c] = struct{}{}
	}
	require.Len(t, seen, DeckSize)
	require.True(t, d.IsEmpty())
}

func TestDeckDeal(t *testing.T) {
	d := NewDeck()
	hand := d.Deal(6)
	require.Len(t, hand, 6)
	require.Equal(t, DeckSize-6, d.Remaining())

	// 超量发牌只发剩余的
	rest := d.Deal(100)
	require.Len(t, rest, DeckSize-6)
	require.True(t, d.IsEmpty())
}

func TestCardCodec(t *testing.T) {
	tests := []struct {
		card  int32
		suit  int32
		rank  int32
		valid bool
	}{
		{101, SuitOros, 1, true},
		{112, SuitOros, 12, true},
		{207, SuitCopas, 7, true},
		{310, SuitEspadas, 10, true},
		{412, SuitBastos, 12, true},
		{108, SuitOros, 8, false},  // 无8
		{209, SuitCopas, 9, false}, // 无9
		{113, SuitOros, 13, false},
		{500, 5, 0, false},
		{0, 0, 0, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.suit, SuitOf(tt.card), "suit of %d", tt.card)
		require.Equal(t, tt.rank, RankOf(tt.card), "rank of %d", tt.card)
		require.Equal(t, tt.valid, ValidCard(tt.card), "valid of %d", tt.card)
	}
	require.Equal(t, NewCard(SuitCopas, 7), int32(207))
}
