package services

// Totals holds the three totals scopes of a quote.
type Totals struct {
	ModalityA      CurrencyTotals
	ModalityB      CurrencyTotals
	General        CurrencyTotals
	UsedCurrencies []Currency
}

// Scope returns the totals for a modality.
func (t Totals) Scope(m Modality) CurrencyTotals {
	switch m {
	case ModalityA:
		return t.ModalityA
	case ModalityB:
		return t.ModalityB
	}
	return t.General
}

// DisplayCurrencies returns the currencies to print in totals blocks: the used
// ones, or BRL alone for an empty quote.
func (t Totals) DisplayCurrencies() []Currency {
	if len(t.UsedCurrencies) == 0 {
		return []Currency{BRL}
	}
	return t.UsedCurrencies
}

// Classification is the output of ClassifyAndTotal.
type Classification struct {
	Sections []Section
	Totals   Totals
}

// HasModality reports whether any section of modality m has items.
func (c Classification) HasModality(m Modality) bool {
	for _, s := range c.Sections {
		if s.Modality == m && len(s.Items) > 0 {
			return true
		}
	}
	return false
}

// ComposeTotals validates the currency cap and then sums every section into
// the general scope and into its modality scope. Nothing is summed when the
// cap is violated.
func ComposeTotals(sections []Section) (Totals, error) {
	used := UsedCurrencies(sections)
	if err := CheckCurrencyCap(used); err != nil {
		return Totals{}, err
	}

	totals := Totals{
		ModalityA:      newCurrencyTotals(),
		ModalityB:      newCurrencyTotals(),
		General:        newCurrencyTotals(),
		UsedCurrencies: used,
	}

	for _, s := range sections {
		sectionTotals := s.Totals
		if sectionTotals == nil {
			sectionTotals = SumByCurrency(s.Items)
		}
		totals.General.add(sectionTotals)
		switch s.Key.Modality() {
		case ModalityA:
			totals.ModalityA.add(sectionTotals)
		case ModalityB:
			totals.ModalityB.add(sectionTotals)
		}
	}

	return totals, nil
}

// ClassifyAndTotal classifies the raw payload and composes its totals.
// It fails with a ValidationError wrapping TooManyCurrenciesError when more
// than two currencies are used.
func ClassifyAndTotal(payload FormPayload) (Classification, error) {
	sections := Classify(payload)
	totals, err := ComposeTotals(sections)
	if err != nil {
		return Classification{}, err
	}
	return Classification{Sections: sections, Totals: totals}, nil
}
