package execution

import "github.com/escanio/escan-core/domain/entities"

// checkItems applies the item_check table of spec.md §4.3 Phase C against
// the per-object Combined booleans produced by state validation.
func checkItems(check entities.ItemCheck, results []entities.ObjectResult) bool {
	// No special-casing of an empty result set: passing == len(results) ==
	// 0 already satisfies "all" and "none_satisfy" vacuously, and fails
	// "at_least_one"/"only_one", exactly per the spec.md §4.3 table.
	passing := 0
	for _, r := range results {
		if r.Combined {
			passing++
		}
	}

	switch check {
	case entities.ItemAll:
		return passing == len(results)
	case entities.ItemAtLeastOne:
		return passing >= 1
	case entities.ItemOnlyOne:
		return passing == 1
	case entities.ItemNoneSatisfy:
		return passing == 0
	default:
		return false
	}
}
