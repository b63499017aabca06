package provision

// MapCategory maps a validated product's category to the internal entitlement
// kind and initial remaining-usage value. The product must have passed
// Validate; unknown categories never reach this table.
//
//	single     -> single      1
//	multi-pass -> multi-pass  product usage budget
//	multi      -> clip-card   product usage budget
//	unlimited  -> monthly     none (unlimited)
func MapCategory(p Product) (Kind, *int) {
	switch p.Category {
	case CategorySingle:
		one := 1
		return KindSingle, &one
	case CategoryMultiPass:
		return KindMultiPass, copyBudget(p.UsageBudget)
	case CategoryMulti:
		return KindClipCard, copyBudget(p.UsageBudget)
	case CategoryUnlimited:
		return KindMonthly, nil
	}
	return "", nil
}

// copyBudget detaches the entitlement's counter from the catalog value so
// later usage decrements never alias the product definition.
func copyBudget(budget *int) *int {
	if budget == nil {
		return nil
	}
	v := *budget
	return &v
}
