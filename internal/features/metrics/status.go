package metrics

import "strings"

// CanonicalStatus is the closed vocabulary every free-form ticket status is
// mapped into.
type CanonicalStatus string

const (
	StatusPending    CanonicalStatus = "Pending"
	StatusInProgress CanonicalStatus = "InProgress"
	StatusResolved   CanonicalStatus = "Resolved"
	StatusCancelled  CanonicalStatus = "Cancelled"
)

// CanonicalStatuses lists the vocabulary in presentation order.
var CanonicalStatuses = []CanonicalStatus{
	StatusPending, StatusInProgress, StatusResolved, StatusCancelled,
}

// statusKeywords maps each canonical status to the raw strings observed in
// legacy data, lower-cased, with and without diacritics. Matching happens in
// the order of statusOrder; the first set containing the input wins.
var statusKeywords = map[CanonicalStatus]map[string]struct{}{
	StatusResolved: keywordSet(
		"terminée", "terminee", "terminé", "termine",
		"résolue", "resolue", "résolu", "resolu",
		"livrée", "livree", "livré", "livre",
		"fermée", "fermee", "fermé", "ferme",
		"resolved", "done", "completed", "closed",
	),
	StatusCancelled: keywordSet(
		"annulée", "annulee", "annulé", "annule",
		"cancelled", "canceled", "cancel", "abandonnée", "abandonnee",
	),
	StatusPending: keywordSet(
		"nouvelle", "nouveau", "new",
		"en attente", "attente", "pending", "reçue", "recue",
	),
	StatusInProgress: keywordSet(
		"en cours", "in progress", "ongoing",
		"en réparation", "en reparation", "réparation", "reparation",
		"diagnostic", "assignée", "assignee", "assigned", "open", "ouverte",
	),
}

var statusOrder = []CanonicalStatus{
	StatusResolved, StatusCancelled, StatusPending, StatusInProgress,
}

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// NormalizeStatus maps a raw ticket status onto the canonical vocabulary.
// Unknown strings default to InProgress so that malformed data is never
// dropped; it is counted as active work instead.
func NormalizeStatus(raw string) CanonicalStatus {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, status := range statusOrder {
		if _, ok := statusKeywords[status][needle]; ok {
			return status
		}
	}
	return StatusInProgress
}

// CountStatuses normalizes every ticket and tallies per canonical status.
// Every status key is present in the result, zero or not, so charts always
// render four segments.
func CountStatuses(tickets []ServiceTicket) map[CanonicalStatus]int {
	counts := make(map[CanonicalStatus]int, len(CanonicalStatuses))
	for _, status := range CanonicalStatuses {
		counts[status] = 0
	}
	for _, t := range tickets {
		counts[NormalizeStatus(t.Status)]++
	}
	return counts
}
