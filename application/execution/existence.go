package execution

import "github.com/escanio/escan-core/domain/entities"

// tally counts Phase A outcomes by kind for the existence check.
type tally struct {
	found, absent, errored, aborted int
}

func tallyResults(results []entities.CollectionResult) tally {
	var t tally
	for _, r := range results {
		switch r.Kind {
		case entities.CollectionOK:
			t.found++
		case entities.CollectionAbsent:
			t.absent++
		case entities.CollectionAborted:
			t.aborted++
		default:
			t.errored++
		}
	}
	return t
}

// checkExistence applies the existence_check table of spec.md §4.3 Phase B
// against the tally of Phase A results for total objects considered.
func checkExistence(check entities.ExistenceCheck, t tally, total int) bool {
	switch check {
	case entities.ExistenceAll:
		return total > 0 && t.found == total
	case entities.ExistenceAny, entities.ExistenceAtLeastOne:
		return t.found >= 1
	case entities.ExistenceNone:
		return t.found == 0
	case entities.ExistenceOnlyOne:
		return t.found == 1
	default:
		return false
	}
}
