package model

import (
	"fmt"

	"github.com/samber/lo"
)

/*
	西班牙牌 40张: 4花色 x 10点数(1-7,10,11,12), 无8和9.
	编码格式: 花色*100 + 点数
*/

const (
	SuitOros    int32 = 1 // 金币
	SuitCopas   int32 = 2 // 圣杯
	SuitEspadas int32 = 3 // 宝剑
	SuitBastos  int32 = 4 // 棍棒
)

const (
	suitMask = 100

	// DeckSize 一副牌的张数
	DeckSize = 40
)

var suitNames = map[int32]string{
	SuitOros:    "Oros",
	SuitCopas:   "Copas",
	SuitEspadas: "Espadas",
	SuitBastos:  "Bastos",
}

// 一副牌 40张
var oneDeck = []int32{
	101, 102, 103, 104, 105, 106, 107, 110, 111, 112, // Oros 10
	201, 202, 203, 204, 205, 206, 207, 210, 211, 212, // Copas 10
	301, 302, 303, 304, 305, 306, 307, 310, 311, 312, // Espadas 10
	401, 402, 403, 404, 405, 406, 407, 410, 411, 412, // Bastos 10
}

// NewCard 创建牌
func NewCard(suit, rank int32) int32 {
	return suit*suitMask + rank
}

// SuitOf 返回花色
func SuitOf(card int32) int32 {
	return card / suitMask
}

// RankOf 返回点数
func RankOf(card int32) int32 {
	return card % suitMask
}

// ValidCard 是否为合法牌
func ValidCard(card int32) bool {
	suit, rank := SuitOf(card), RankOf(card)
	if suit < SuitOros || suit > SuitBastos {
		return false
	}
	return (rank >= 1 && rank <= 7) || (rank >= 10 && rank <= 12)
}

// CardString 牌的可读表示, 例如 "Oros7"
func CardString(card int32) string {
	name, ok := suitNames[SuitOf(card)]
	if !ok {
		return fmt.Sprintf("Card(%d)", card)
	}
	return fmt.Sprintf("%s%d", name, RankOf(card))
}

/*
	Deck 管理牌堆
*/

type Deck struct {
	index int
	cards []int32
}

// NewDeck 初始化一副完整的牌
func NewDeck() *Deck {
	cards := make([]int32, len(oneDeck))
	copy(cards, oneDeck)
	return &Deck{cards: cards}
}

// Shuffle 洗牌并重置索引
func (d *Deck) Shuffle() {
	d.index = 0
	for i := 0; i < 3; i++ {
		d.cards = lo.Shuffle(d.cards)
	}
}

// Deal 发牌, 返回 n 张牌
func (d *Deck) Deal(n int) []int32 {
	end := d.index + n
	if end > len(d.cards) {
		end = len(d.cards)
	}
	cards := make([]int32, end-d.index)
	copy(cards, d.cards[d.index:end])
	d.index = end
	return cards
}

// Draw 摸一张牌
func (d *Deck) Draw() (int32, bool) {
	if d.IsEmpty() {
		return 0, false
	}
	card := d.cards[d.index]
	d.index++
	return card, true
}

// Remaining 返回剩余牌数
func (d *Deck) Remaining() int {
	return len(d.cards) - d.index
}

// IsEmpty 是否牌堆空了
func (d *Deck) IsEmpty() bool {
	return d.index >= len(d.cards)
}
