package coinlots

import (
	"strings"
	"time"
)

// giftNote is the ledger note that marks a disposal with no consideration.
// Such a disposal still reduces the held quantity but records no gain.
const giftNote = "gift"

// Trade is one ledger line: an acquisition of BuyQuantity of BuyAsset
// against a disposal of SellQuantity of SellAsset. Either side can be
// zero (a pure deposit or withdrawal). Valuations are attached once by
// the Normalizer; the record itself is never mutated afterwards, the
// Matcher works on its own pool copies.
type Trade struct {
	Type         string
	BuyQuantity  Quantity
	BuyAsset     string
	BuyValue     Valuation
	SellQuantity Quantity
	SellAsset    string
	SellValue    Valuation
	Venue        string
	Note         string
	Time         time.Time // UTC
}

// IsGift reports whether the trade's note marks it as a gift. The match
// for a gift sell is kept out of the realized report but its quantity is
// still consumed from both pools.
func (t Trade) IsGift() bool { return isGiftNote(t.Note) }

func isGiftNote(note string) bool {
	return strings.EqualFold(strings.TrimSpace(note), giftNote)
}
