package services

import "strings"

// DefaultValidityDays is applied when a quote carries no validity.
const DefaultValidityDays = 15

// Quote status values stored with every save.
const (
	QuoteStatusDraft = "Rascunho"
	QuoteStatusFinal = "Concluída"
)

// Quote is the proposal header: identity, counterpart, commercial terms and
// the free-text technical blocks.
type Quote struct {
	Code           string       `json:"quote_code"`
	Date           string       `json:"date"`
	Company        string       `json:"company"`
	Client         string       `json:"client"`
	CNPJ           string       `json:"cnpj"`
	MachineModel   string       `json:"machine_model"`
	Representative string       `json:"representative"`
	Supplier       string       `json:"supplier"`
	ValidityDays   int          `json:"validity_days"`
	DeliveryTime   string       `json:"delivery_time"`
	Notes          string       `json:"notes"`
	TechSpec       string       `json:"tech_spec"`
	Principle      string       `json:"principle"`
	Status         string       `json:"status"`
	SellerName     string       `json:"seller_name"`
	ContactEmail   string       `json:"contact_email"`
	ContactPhone   string       `json:"contact_phone"`
	Payment        PaymentTerms `json:"payment"`
}

// PaymentTerms is the optional payment-conditions page.
type PaymentTerms struct {
	Include         bool   `json:"include_payment_conditions"`
	Intro           string `json:"payment_intro"`
	USDConditions   string `json:"payment_usd_conditions"`
	BRLIntro        string `json:"payment_brl_intro"`
	BRLWithSAT      string `json:"payment_brl_with_sat"`
	BRLWithoutSAT   string `json:"payment_brl_without_sat"`
	AdditionalNotes string `json:"payment_additional_notes"`
}

// Normalized trims the text fields and applies the header defaults.
func (q Quote) Normalized() Quote {
	for _, f := range []*string{
		&q.Code, &q.Date, &q.Company, &q.Client, &q.CNPJ, &q.MachineModel,
		&q.Representative, &q.Supplier, &q.DeliveryTime, &q.Status,
		&q.SellerName, &q.ContactEmail, &q.ContactPhone,
	} {
		*f = strings.TrimSpace(*f)
	}
	if q.ValidityDays <= 0 {
		q.ValidityDays = DefaultValidityDays
	}
	if q.Status == "" {
		q.Status = QuoteStatusDraft
	}
	return q
}

// ClientName is the counterpart name printed on the cover.
func (q Quote) ClientName() string {
	if q.Client != "" {
		return q.Client
	}
	return q.Company
}

// HasContact reports whether any seller contact field is filled.
func (q Quote) HasContact() bool {
	return q.SellerName != "" || q.ContactEmail != "" || q.ContactPhone != ""
}

// BusinessStatus tracks where an issued quote stands commercially.
type BusinessStatus string

const (
	BusinessActive        BusinessStatus = "ativa"
	BusinessPurchaseOrder BusinessStatus = "pedido_compra"
	BusinessFinished      BusinessStatus = "finalizada"
	BusinessWrittenOff    BusinessStatus = "baixa"
)

// BusinessStatuses lists every status in lifecycle order.
var BusinessStatuses = []BusinessStatus{BusinessActive, BusinessPurchaseOrder, BusinessFinished, BusinessWrittenOff}

// Valid reports whether s is a known status.
func (s BusinessStatus) Valid() bool {
	for _, v := range BusinessStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransition reports whether a quote may move from s to next. Quotes only
// move forward (ativa, pedido_compra, finalizada) and any open quote can be
// written off. Written-off quotes are kept but never move again.
func (s BusinessStatus) CanTransition(next BusinessStatus) bool {
	switch {
	case s == BusinessWrittenOff || !next.Valid():
		return false
	case next == BusinessWrittenOff:
		return true
	case s == BusinessActive:
		return next == BusinessPurchaseOrder
	case s == BusinessPurchaseOrder:
		return next == BusinessFinished
	}
	return false
}
