package model

import (
	"sort"

	"github.com/samber/lo"
)

// MinMeldSize 组牌最少张数
const MinMeldSize = 3

// IsValidMeld 判断一组牌是否可组合.
// Tercia: 点数相同且花色互不相同; Corrida: 同花色连续点数, 7 之后直接接 10 (无8/9).
func IsValidMeld(cards []int32) bool {
	if len(cards) < MinMeldSize {
		return false
	}
	for _, c := range cards {
		if !ValidCard(c) {
			return false
		}
	}
	sorted := make([]int32, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return RankOf(sorted[i]) < RankOf(sorted[j]) })
	return isTercia(sorted) || isCorrida(sorted)
}

func isTercia(cards []int32) bool {
	rank := RankOf(cards[0])
	suits := make(map[int32]struct{}, len(cards))
	for _, c := range cards {
		if RankOf(c) != rank {
			return false
		}
		suit := SuitOf(c)
		if _, dup := suits[suit]; dup {
			return false
		}
		suits[suit] = struct{}{}
	}
	return true
}

func isCorrida(cards []int32) bool {
	suit := SuitOf(cards[0])
	if !lo.EveryBy(cards, func(c int32) bool { return SuitOf(c) == suit }) {
		return false
	}
	for i := 1; i < len(cards); i++ {
		prev, curr := RankOf(cards[i-1]), RankOf(cards[i])
		if curr == prev+1 {
			continue
		}
		if prev == 7 && curr == 10 { // 无8/9, 7直接接10
			continue
		}
		return false
	}
	return true
}
