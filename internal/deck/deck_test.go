package deck

import (
	"math/rand"
	"testing"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()
	d := NewDeck(rand.New(rand.NewSource(42)))

	if d.CardsRemaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.CardsRemaining())
	}

	seen := make(map[Card]bool)
	for !d.IsEmpty() {
		card, ok := d.Deal()
		if !ok {
			t.Fatal("deal failed on non-empty deck")
		}
		if seen[card] {
			t.Fatalf("duplicate card dealt: %s", card)
		}
		seen[card] = true
	}

	if len(seen) != 52 {
		t.Fatalf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDealFromEmptyDeck(t *testing.T) {
	t.Parallel()
	d := NewDeck(rand.New(rand.NewSource(42)))
	d.DealN(52)

	if !d.IsEmpty() {
		t.Error("deck should be empty after dealing all cards")
	}
	if _, ok := d.Deal(); ok {
		t.Error("deal should fail on empty deck")
	}
}

func TestDealNClampsToRemaining(t *testing.T) {
	t.Parallel()
	d := NewDeck(rand.New(rand.NewSource(42)))
	d.DealN(50)

	cards := d.DealN(5)
	if len(cards) != 2 {
		t.Errorf("expected 2 cards, got %d", len(cards))
	}
}

func TestDeterministicShuffle(t *testing.T) {
	t.Parallel()
	d1 := NewDeck(rand.New(rand.NewSource(7)))
	d2 := NewDeck(rand.New(rand.NewSource(7)))

	for i := 0; i < 52; i++ {
		c1, _ := d1.Deal()
		c2, _ := d2.Deal()
		if c1 != c2 {
			t.Fatalf("same seed should produce same order, diverged at card %d", i)
		}
	}
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	t.Parallel()
	want := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, King),
		NewCard(Diamonds, Two),
	}
	d := Stacked(want)

	for i, w := range want {
		got, ok := d.Deal()
		if !ok || got != w {
			t.Fatalf("card %d: got %v, want %v", i, got, w)
		}
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	cases := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "A♠"},
		{NewCard(Hearts, Ten), "T♥"},
		{NewCard(Diamonds, Two), "2♦"},
		{NewCard(Clubs, Queen), "Q♣"},
	}

	for _, tc := range cases {
		if got := tc.card.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}

	if !NewCard(Hearts, Five).IsRed() {
		t.Error("hearts should be red")
	}
	if NewCard(Clubs, Five).IsRed() {
		t.Error("clubs should not be red")
	}
}
