package aggregator

import "github.com/blink-new/whats-the-going-rate-wholesale-mdlila5q/internal/search"

// Kind names one of the three categorized sub-queries
type Kind int

const (
	KindWholesale Kind = iota
	KindCloseout
	KindShopping
)

func (k Kind) String() string {
	switch k {
	case KindWholesale:
		return "wholesale"
	case KindCloseout:
		return "closeout"
	case KindShopping:
		return "shopping"
	default:
		return "unknown"
	}
}

// SubQuery is one provider call derived from the user's query
type SubQuery struct {
	Kind    Kind
	Text    string
	Options search.Options
}

// Queries derives the wholesale, closeout and shopping sub-queries, in that order.
func Queries(query string) []SubQuery {
	return []SubQuery{
		{
			Kind:    KindWholesale,
			Text:    query + " wholesale price bulk pricing supplier",
			Options: search.Options{Limit: 10},
		},
		{
			Kind:    KindCloseout,
			Text:    query + " closeout liquidation discount price",
			Options: search.Options{Limit: 10},
		},
		{
			Kind:    KindShopping,
			Text:    query + " price comparison shopping",
			Options: search.Options{Limit: 15, Type: search.TypeShopping},
		},
	}
}
