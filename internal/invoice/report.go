package invoice

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TariffANEELPendingNote replaces the ANEEL tariff when it must be derived by hand
const TariffANEELPendingNote = "Necessita cálculo deduzindo impostos"

// field is one labelled line of the report. cell is the value written to
// spreadsheet exports.
type field struct {
	label string
	value func(r Record) string
	cell  func(r Record) any
}

func textField(label string, get func(r Record) string) field {
	return field{label: label, value: get, cell: func(r Record) any { return get(r) }}
}

func numberField(label, prefix string, get func(r Record) float64) field {
	return field{
		label: label,
		value: func(r Record) string { return prefix + formatFloat(get(r)) },
		cell:  func(r Record) any { return get(r) },
	}
}

func taxField(name string) field {
	return field{
		label: name,
		value: func(r Record) string { return taxRate(r, name) + "%" },
		cell:  func(r Record) any { return taxRate(r, name) },
	}
}

// reportFields lists the report lines in print order
var reportFields = []field{
	textField("Titular", func(r Record) string { return r.HolderName }),
	textField("Documento", func(r Record) string { return r.HolderDocument }),
	textField("Endereço Completo", func(r Record) string { return r.Address }),
	textField("Classificação da Instalação", func(r Record) string { return r.Classification }),
	textField("Número da Instalação", func(r Record) string { return r.InstallationNumber }),
	numberField("Valor a Pagar", "R$ ", func(r Record) float64 { return r.AmountDue }),
	textField("Data de Vencimento", func(r Record) string { return r.DueDate }),
	textField("Mês de Referência", func(r Record) string { return r.ReferenceMonth }),
	numberField("Tarifa total com tributos", "", func(r Record) float64 { return r.TariffWithTaxes }),
	{label: "Tarifa total Aneel", value: tariffANEEL, cell: tariffANEELCell},
	numberField("Consumo (kWh)", "", func(r Record) float64 { return r.ConsumptionKWh }),
	numberField("Saldo acumulado (kWh)", "", func(r Record) float64 { return r.AccumulatedBalanceKWh }),
	numberField("Somatório energias compensadas", "", func(r Record) float64 { return r.CompensatedEnergyKWh }),
	numberField("Total das Operações", "R$ ", func(r Record) float64 { return r.OperationsTotal }),
	numberField("Contribuição Iluminação Pública", "R$ ", func(r Record) float64 { return r.PublicLighting }),
	textField("Linha Digitável", func(r Record) string { return r.DigitableLine }),
	taxField(TaxICMS),
	taxField(TaxPIS),
	taxField(TaxCOFINS),
}

// WriteReport prints every field of the record under a header naming the file
func WriteReport(w io.Writer, filename string, r Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n===== DADOS EXTRAÍDOS: %s =====\n", filename)
	for _, f := range reportFields {
		fmt.Fprintf(&b, "%s: %s\n", f.label, f.value(r))
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// WriteUnrecognized prints the notice for a file with no known utility marker
func WriteUnrecognized(w io.Writer, filename string) error {
	if _, err := fmt.Fprintf(w, "\n[%s] Concessionária não reconhecida.\n", filename); err != nil {
		return fmt.Errorf("writing notice: %w", err)
	}
	return nil
}

// WriteUnreadable prints the notice for a file that could not be read
func WriteUnreadable(w io.Writer, filename string) error {
	if _, err := fmt.Fprintf(w, "\nArquivo %s não encontrado ou erro de leitura.\n", filename); err != nil {
		return fmt.Errorf("writing notice: %w", err)
	}
	return nil
}

func tariffANEEL(r Record) string {
	if r.TariffANEELPending {
		return TariffANEELPendingNote
	}
	return formatFloat(r.TariffANEEL)
}

func tariffANEELCell(r Record) any {
	if r.TariffANEELPending {
		return TariffANEELPendingNote
	}
	return r.TariffANEEL
}

func taxRate(r Record, name string) string {
	if v, ok := r.TaxRates[name]; ok {
		return v
	}
	return DefaultTaxRate
}

// formatFloat prints the shortest form of f, keeping one decimal on whole
// numbers ("150.0"). Always plain notation: 1e16 prints every digit and
// 1e-05 prints "0.00001", far outside what a bill carries.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
