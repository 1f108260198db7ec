package invoice

// NotFound is the value of any text field whose pattern did not match
const NotFound = "Não encontrado"

// DefaultTaxRate is the value of any tax rate that could not be read
const DefaultTaxRate = "0,00"

// Tax names used as keys of Record.TaxRates
const (
	TaxICMS   = "ICMS"
	TaxPIS    = "PIS"
	TaxCOFINS = "COFINS"
)

// Layout identifies the utility that issued an invoice
type Layout string

const (
	LayoutCPFL  Layout = "CPFL"
	LayoutCEMIG Layout = "CEMIG"
)

// Record holds the billing fields extracted from one invoice.
// Every field is always set: unmatched text fields hold NotFound
// and unmatched numbers hold 0.
type Record struct {
	Layout                Layout            `json:"concessionaria"`
	HolderName            string            `json:"titular_nome"`
	HolderDocument        string            `json:"titular_documento"`
	Address               string            `json:"endereco_completo"`
	Classification        string            `json:"classificacao"`
	InstallationNumber    string            `json:"numero_instalacao"`
	ReferenceMonth        string            `json:"mes_referencia"`
	DueDate               string            `json:"data_vencimento"`
	AmountDue             float64           `json:"valor_pagar"`
	OperationsTotal       float64           `json:"total_operacoes"`
	PublicLighting        float64           `json:"contrib_ilum_publica"`
	TariffWithTaxes       float64           `json:"tarifa_total_com_tributos"`
	TariffANEEL           float64           `json:"tarifa_total_aneel"`
	TariffANEELPending    bool              `json:"tarifa_total_aneel_pendente,omitempty"` // requires deducting taxes by hand
	ConsumptionKWh        float64           `json:"consumo_kwh"`
	AccumulatedBalanceKWh float64           `json:"saldo_acumulado_kwh"`
	CompensatedEnergyKWh  float64           `json:"energia_compensada_kwh"`
	TaxRates              map[string]string `json:"aliquotas"`
	DigitableLine         string            `json:"linha_digitavel"`
}

// newRecord returns a record with every field set to its sentinel
func newRecord(layout Layout) Record {
	return Record{
		Layout:             layout,
		HolderName:         NotFound,
		HolderDocument:     NotFound,
		Address:            NotFound,
		Classification:     NotFound,
		InstallationNumber: NotFound,
		ReferenceMonth:     NotFound,
		DueDate:            NotFound,
		TaxRates: map[string]string{
			TaxICMS:   DefaultTaxRate,
			TaxPIS:    DefaultTaxRate,
			TaxCOFINS: DefaultTaxRate,
		},
		DigitableLine: NotFound,
	}
}
