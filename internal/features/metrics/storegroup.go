package metrics

import "strings"

// brandRule assigns a store to a brand group when the lower-cased store name
// contains the substring. Rules are tried in order; the first hit wins.
type brandRule struct {
	Substring string
	Group     string
}

var brandRules = []brandRule{
	{"sillage", "Sillage"},
	{"gemaber", "Gemaber"},
}

// BrandFor returns the brand group a store name belongs to, or false when no
// rule matches.
func BrandFor(storeName string) (string, bool) {
	lower := strings.ToLower(storeName)
	for _, rule := range brandRules {
		if strings.Contains(lower, rule.Substring) {
			return rule.Group, true
		}
	}
	return "", false
}

// GroupStores maps individual stores into brand-level groups. Stores matching
// no brand rule keep their own name as a singleton group. Groups are emitted
// in first-encounter order of their constituent stores.
func GroupStores(stores []Store) []StoreGroup {
	var groups []StoreGroup
	index := make(map[string]int)

	for _, store := range stores {
		name, ok := BrandFor(store.Name)
		if !ok {
			name = store.Name
		}

		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, StoreGroup{GroupName: name})
		}
		groups[i].MemberStoreIDs = append(groups[i].MemberStoreIDs, store.ID.Hex())
	}

	return groups
}

// AggregateSales fills in each group's revenue and sale count from the
// resolved sales. A group's revenue equals the sum of TotalAmount over all
// sales whose store is a member. Sales pointing at a store outside every
// group are ignored here; they still count in the overview totals.
func AggregateSales(groups []StoreGroup, sales []SaleRecord) []StoreGroup {
	byStore := make(map[string]int, len(groups))
	for i, g := range groups {
		for _, id := range g.MemberStoreIDs {
			byStore[id] = i
		}
	}

	out := make([]StoreGroup, len(groups))
	copy(out, groups)

	for _, sale := range sales {
		i, ok := byStore[sale.StoreID.Hex()]
		if !ok {
			continue
		}
		out[i].AggregateRevenue += sale.TotalAmount
		out[i].AggregateCount++
	}

	return out
}
