// Package pricing derives the length and price of a stay from a date range
// and a cabin's current rate. All functions are pure.
package pricing

import (
	"time"

	"github.com/ssssstella/the-wild-oasis-customer/internal/model"
)

// Quote is the derived cost of a stay.
type Quote struct {
	NumNights  int
	CabinPrice float64
}

// Nights returns the number of nights between two dates: whole days from
// start to end, exclusive of the checkout day. Comparison happens on UTC
// calendar dates so wall-clock times and DST shifts cannot change the count.
// A non-positive result means the range is not a valid stay.
func Nights(start, end time.Time) int {
	s := midnightUTC(start)
	e := midnightUTC(end)
	return int(e.Sub(s) / (24 * time.Hour))
}

// QuoteStay prices a stay in the given cabin at its current rate:
// numNights × (regularPrice − discount).
func QuoteStay(cabin *model.Cabin, r model.DateRange) Quote {
	n := Nights(r.StartDate, r.EndDate)
	return Quote{
		NumNights:  n,
		CabinPrice: float64(n) * (cabin.RegularPrice - cabin.Discount),
	}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
