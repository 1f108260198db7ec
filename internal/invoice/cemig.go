package invoice

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	cemigHolderRe       = regexp.MustCompile(`(?m)^([A-Z\s]+)\s+Referente`)
	cemigDocumentRe     = regexp.MustCompile(`CPF\s+([\d\.-]+)`)
	cemigAddressRe      = regexp.MustCompile(`([A-Z\s0-9,]+)\s+[A-Z]{3}/\d{4}.*\n(.*)\n(\d{5}-\d{3}.*?)\s+NOTA`)
	cemigBillingRe      = regexp.MustCompile(`([A-Z]{3}/\d{4})\s+(\d{2}/\d{2}/\d{4})\s+([\d,]+)`)
	cemigInstallationRe = regexp.MustCompile(`Nº DA INSTALAÇÃO.*?\n\d+\s+(\d+)`)
	cemigClassRe        = regexp.MustCompile(`(?s)(Residencial.*?Bifásico|Residencial.*?Monofásico|Residencial.*?Trifásico)`)
	cemigTariffRe       = regexp.MustCompile(`Energia Elétrica\s+kWh\s+\d+\s+([\d,]+)`)
	cemigTariffSCEERe   = regexp.MustCompile(`Energia SCEE s/ ICMS\s+kWh\s+\d+\s+([\d,]+)`)
	// JUL/23 is listed next to the generic month code as it appears on the
	// reference bill.
	cemigConsumptionRe = regexp.MustCompile(`(?:JUL/23|[A-Z]{3}/\d{2})\s+(\d+)\s+`)
	cemigBalanceRe     = regexp.MustCompile(`SALDO ATUAL DE GERAÇÃO:\s*([\d,]+)\s*kWh`)
	cemigCompGDIIRe    = regexp.MustCompile(`Energia compensada GD II.*?kWh\s+(\d+)`)
	cemigCompExtraRe   = regexp.MustCompile(`Energia comp\. adicional.*?kWh\s+(\d+)`)
	cemigLightingRe    = regexp.MustCompile(`Contrib Ilum Publica Municipal\s+([\d,]+)`)
)

// ParseCEMIG extracts the billing fields of a CEMIG invoice. CEMIG bills
// carry no tax rates nor digitable line in their text, so those keep
// their sentinels.
func ParseCEMIG(text string) Record {
	r := newRecord(LayoutCEMIG)

	if m := cemigHolderRe.FindStringSubmatch(text); m != nil {
		r.HolderName = strings.TrimSpace(m[1])
	}

	if m := cemigDocumentRe.FindStringSubmatch(text); m != nil {
		r.HolderDocument = strings.TrimSpace(m[1])
	}

	if m := cemigAddressRe.FindStringSubmatch(text); m != nil {
		r.Address = joinAddress(m[1], m[2], m[3])
	}

	if m := cemigBillingRe.FindStringSubmatch(text); m != nil {
		r.ReferenceMonth = m[1]
		r.DueDate = m[2]
		r.AmountDue = ParseCurrency(m[3])
	}

	// The header line may also hold a print date, the id is on the next line
	if m := cemigInstallationRe.FindStringSubmatch(text); m != nil {
		r.InstallationNumber = m[1]
	}

	if m := cemigClassRe.FindStringSubmatch(text); m != nil {
		r.Classification = strings.TrimSpace(strings.ReplaceAll(m[1], "\n", " "))
	}

	if m := cemigTariffRe.FindStringSubmatch(text); m != nil {
		r.TariffWithTaxes = ParseNumber(m[1])
	}

	if m := cemigTariffSCEERe.FindStringSubmatch(text); m != nil {
		r.TariffANEEL = ParseNumber(m[1])
	}

	if m := cemigConsumptionRe.FindStringSubmatch(text); m != nil {
		r.ConsumptionKWh = parseInteger(m[1])
	}

	if m := cemigBalanceRe.FindStringSubmatch(text); m != nil {
		r.AccumulatedBalanceKWh = ParseNumber(m[1])
	}

	var compensated float64
	if m := cemigCompGDIIRe.FindStringSubmatch(text); m != nil {
		compensated += parseInteger(m[1])
	}
	if m := cemigCompExtraRe.FindStringSubmatch(text); m != nil {
		compensated += parseInteger(m[1])
	}
	r.CompensatedEnergyKWh = compensated

	// No consolidated figure on this layout
	r.OperationsTotal = r.AmountDue

	if m := cemigLightingRe.FindStringSubmatch(text); m != nil {
		r.PublicLighting = ParseCurrency(m[1])
	}

	return r
}

// parseInteger reads a plain digit run, as captured by \d+
func parseInteger(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
