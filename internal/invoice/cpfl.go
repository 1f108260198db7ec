package invoice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	cpflHolderRe       = regexp.MustCompile(`([A-Z\s]+)\s+CPF:\s*([\d\.-]+)`)
	cpflAddressRe      = regexp.MustCompile(`([A-Z0-9\s]+?)\s*CLASSIFICAÇÃO:\s*(.*?)\n(.*?)\n(\d{5}-\d{3}.*)`)
	cpflSummaryRe      = regexp.MustCompile(`(\d{9})\s+INSTALAÇÃO\s+([A-Z]{3}/\d{4})\s+(\d{2}/\d{2}/\d{4})\s+([\d,]+)`)
	cpflTariffTUSDRe   = regexp.MustCompile(`Energia Ativa Fornecida - TUSD.*?(?:kWh)\s+([\d,]+)`)
	cpflTariffTERe     = regexp.MustCompile(`Energia Ativa Fornecida - TE.*?(?:kWh)\s+([\d,]+)`)
	cpflConsumptionRe  = regexp.MustCompile(`Energia Ativa Fornecida - TUSD.*?\s+([\d\.]+,\d+)\s+kWh`)
	cpflBalanceRe      = regexp.MustCompile(`Saldo em Energia da Instalação:.*?([\d\.,]+)\s*kWh`)
	cpflInjectedRe     = regexp.MustCompile(`Energ Atv Inj.*?TUSD.*?\s+(\d+\.\d{3},\d+|\d+,\d+)\s+kWh`)
	cpflConsolidatedRe = regexp.MustCompile(`Total Consolidado\s+([\d,]+)`)
	cpflLightingRe     = regexp.MustCompile(`Contrib\. Custeio IP-CIP.*?\d{2}\s+([\d,]+)`)
	cpflPISCOFINSRe    = regexp.MustCompile(`PIS/COFINS\s+([\d,]+)%\s+([\d,]+)%`)
	cpflICMSRe         = regexp.MustCompile(`Energia Ativa Fornecida - TUSD.*?kWh\s+[\d,]+\s+[\d,]+\s+[\d,]+\s+(\d{1,2},\d{2})`)
	cpflLineRe         = regexp.MustCompile(`(\d{11,12}\s+\d{11,12}\s+\d{11,13}\s+\d{11,12})`)
)

// tariffPrecision is the number of decimals kept for summed tariffs
const tariffPrecision = 6

// ParseCPFL extracts the billing fields of a CPFL invoice. Every rule
// runs on its own, a miss only leaves its own fields at their sentinel.
func ParseCPFL(text string) Record {
	r := newRecord(LayoutCPFL)

	if m := cpflHolderRe.FindStringSubmatch(text); m != nil {
		r.HolderName = strings.TrimSpace(m[1])
		r.HolderDocument = strings.TrimSpace(m[2])
	}

	if m := cpflAddressRe.FindStringSubmatch(text); m != nil {
		r.Address = joinAddress(m[1], m[3], m[4])
		r.Classification = strings.TrimSpace(m[2])
	}

	if m := cpflSummaryRe.FindStringSubmatch(text); m != nil {
		r.InstallationNumber = m[1]
		r.ReferenceMonth = m[2]
		r.DueDate = m[3]
		r.AmountDue = ParseCurrency(m[4])
	}

	// Distribution and energy components are billed separately
	tusd := cpflTariffTUSDRe.FindStringSubmatch(text)
	te := cpflTariffTERe.FindStringSubmatch(text)
	if tusd != nil && te != nil {
		sum := parseNumberDecimal(tusd[1]).Add(parseNumberDecimal(te[1]))
		r.TariffWithTaxes = sum.Round(tariffPrecision).InexactFloat64()
	}
	r.TariffANEELPending = true

	if m := cpflConsumptionRe.FindStringSubmatch(text); m != nil {
		r.ConsumptionKWh = ParseNumber(m[1])
	}

	if m := cpflBalanceRe.FindStringSubmatch(text); m != nil {
		r.AccumulatedBalanceKWh = ParseNumber(m[1])
	}

	injected := decimal.Zero
	for _, m := range cpflInjectedRe.FindAllStringSubmatch(text, -1) {
		injected = injected.Add(parseNumberDecimal(m[1]))
	}
	r.CompensatedEnergyKWh = injected.InexactFloat64()

	r.OperationsTotal = r.AmountDue
	if m := cpflConsolidatedRe.FindStringSubmatch(text); m != nil {
		r.OperationsTotal = ParseCurrency(m[1])
	}

	if m := cpflLightingRe.FindStringSubmatch(text); m != nil {
		r.PublicLighting = ParseCurrency(m[1])
	}

	if m := cpflICMSRe.FindStringSubmatch(text); m != nil {
		r.TaxRates[TaxICMS] = m[1]
	}
	if m := cpflPISCOFINSRe.FindStringSubmatch(text); m != nil {
		r.TaxRates[TaxPIS] = m[1]
		r.TaxRates[TaxCOFINS] = m[2]
	}

	if m := cpflLineRe.FindStringSubmatch(text); m != nil {
		r.DigitableLine = m[1]
	}

	return r
}

// joinAddress trims and comma-joins the lines of an address block
func joinAddress(parts ...string) string {
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}
