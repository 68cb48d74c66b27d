package rules

// DefaultRegistry returns a registry loaded with the full detection rule
// set. Callers needing a different mix build their own registry.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	defaults := []Rule{
		{Name: "presence_absence_conflict", Eval: PresenceAbsenceConflict},
		{Name: "event_date_disagreement", Eval: EventDateDisagreement},
		{Name: "numeric_amount_mismatch", Eval: NumericAmountMismatch},
		{Name: "status_flip_without_transition", Eval: StatusFlipWithoutTransition},
		{Name: "location_mismatch", Eval: LocationMismatch},
		{Name: "role_responsibility_conflict", Eval: RoleResponsibilityConflict},
		{Name: "date_range_overlap_conflict", Eval: DateRangeOverlapConflict},
	}
	for _, rule := range defaults {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}
