package accounting

import (
	"maps"
	"slices"

	"factorybook/internal/catalog"
)

// Balance is the net production of a node and everything below it: signed
// per-minute item rates (production positive, consumption negative) plus net
// megawatts. It is derived data, recomputed and replaced wholesale, never
// edited in place. The zero value is an empty balance.
type Balance struct {
	Power float64
	Items map[catalog.ItemID]float64
}

// PowerOnly returns a balance carrying megawatts and no item rates.
func PowerOnly(mw float64) Balance {
	return Balance{Power: mw}
}

func (b Balance) Clone() Balance {
	return Balance{Power: b.Power, Items: maps.Clone(b.Items)}
}

// Add returns the entry-wise sum. Neither operand is modified.
func (b Balance) Add(o Balance) Balance {
	out := b.Clone()
	out.Power += o.Power
	if out.Items == nil && len(o.Items) > 0 {
		out.Items = make(map[catalog.ItemID]float64, len(o.Items))
	}
	for item, rate := range o.Items {
		out.Items[item] += rate
	}
	return out
}

// Scale returns the balance with every rate and the power multiplied by f.
func (b Balance) Scale(f float64) Balance {
	out := Balance{Power: b.Power * f}
	if b.Items != nil {
		out.Items = make(map[catalog.ItemID]float64, len(b.Items))
		for item, rate := range b.Items {
			out.Items[item] = rate * f
		}
	}
	return out
}

// Equal reports exact equality. An absent item counts as present with rate
// zero, in both directions.
func (b Balance) Equal(o Balance) bool {
	if b.Power != o.Power {
		return false
	}
	for item, rate := range b.Items {
		if o.Items[item] != rate {
			return false
		}
	}
	for item, rate := range o.Items {
		if b.Items[item] != rate {
			return false
		}
	}
	return true
}

func (b Balance) IsZero() bool {
	if b.Power != 0 {
		return false
	}
	for _, rate := range b.Items {
		if rate != 0 {
			return false
		}
	}
	return true
}

// Prune returns the balance without exact-zero item entries.
func (b Balance) Prune() Balance {
	out := Balance{Power: b.Power}
	if len(b.Items) > 0 {
		out.Items = make(map[catalog.ItemID]float64, len(b.Items))
		for item, rate := range b.Items {
			if rate != 0 {
				out.Items[item] = rate
			}
		}
	}
	return out
}

type Entry struct {
	Item catalog.ItemID
	Rate float64
}

// BucketedBalance is the presentation split of a balance: produced items,
// exact-zero items, consumed items, each ordered by item id, with power kept
// separate. NaN rates land in Neutral.
type BucketedBalance struct {
	Positive []Entry
	Neutral  []Entry
	Negative []Entry
	Power    float64
}

func (b Balance) Partition() BucketedBalance {
	out := BucketedBalance{Power: b.Power}
	ids := make([]catalog.ItemID, 0, len(b.Items))
	for item := range b.Items {
		ids = append(ids, item)
	}
	slices.Sort(ids)
	for _, item := range ids {
		e := Entry{Item: item, Rate: b.Items[item]}
		switch {
		case e.Rate > 0:
			out.Positive = append(out.Positive, e)
		case e.Rate < 0:
			out.Negative = append(out.Negative, e)
		default:
			out.Neutral = append(out.Neutral, e)
		}
	}
	return out
}

// WithoutNeutral drops the zero bucket, for displays that hide empty rows.
func (bb BucketedBalance) WithoutNeutral() BucketedBalance {
	bb.Neutral = nil
	return bb
}
