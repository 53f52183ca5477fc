// Package money concentra a conversão e validação de valores monetários e quantidades.
// Todos os valores circulam como decimal.Decimal; float64 nunca é usado para dinheiro.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale é o número de casas decimais da unidade mínima da moeda (centavos)
const Scale = 2

// QuantityScale é a precisão máxima aceita para quantidades
const QuantityScale = 4

var (
	ErrEmpty           = errors.New("valor não informado")
	ErrNotFinite       = errors.New("valor não finito (Infinity/NaN) não é aceito")
	ErrNotNumeric      = errors.New("valor não numérico")
	ErrOutOfRange      = errors.New("valor fora do intervalo permitido")
	ErrTooManyDecimals = errors.New("valor com mais casas decimais que o permitido")
)

// limit acompanha as colunas NUMERIC(14,2) / NUMERIC(14,4) do banco
var limit = decimal.New(1, 12)

// maxInputLen comporta 12 dígitos inteiros, sinal, ponto e casas decimais com folga
const maxInputLen = 32

// Zero é o valor monetário nulo
var Zero = decimal.Zero

// Parse converte texto em decimal rejeitando entradas não finitas ou não numéricas
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return decimal.Zero, ErrNotFinite
	}
	if len(s) > maxInputLen {
		return decimal.Zero, ErrOutOfRange
	}
	// notação científica fica de fora: 1e10000000 custaria segundos na comparação
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrNotNumeric
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}

	if !InRange(d) {
		return decimal.Zero, ErrOutOfRange
	}

	return d, nil
}

// InRange indica se |d| cabe nas colunas numéricas do banco
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(limit)
}

// ParseAmount converte texto em valor monetário com no máximo Scale casas decimais
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return d, err
	}
	if !HasScale(d, Scale) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return d, nil
}

// ParseQuantity converte texto em quantidade com no máximo QuantityScale casas decimais
func ParseQuantity(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return d, err
	}
	if !HasScale(d, QuantityScale) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return d, nil
}

// HasScale verifica se d não possui mais que places casas decimais significativas
func HasScale(d decimal.Decimal, places int32) bool {
	return d.Truncate(places).Equal(d)
}

// Round arredonda para a unidade mínima da moeda (meio para cima)
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// ToCents converte um valor com precisão de centavos em inteiro de centavos
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(Scale).IntPart()
}

// FromCents converte centavos em valor monetário
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Scale)
}

// Text guarda a representação textual de um número recebido em JSON.
// Aceita tanto números (10.5) quanto strings ("10.50"); a conversão e a validação
// acontecem depois, em Parse/ParseAmount, para produzir erros por campo.
type Text string

// UnmarshalJSON implementa json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(data)
	return nil
}

// IsSet indica se algum valor foi informado
func (t Text) IsSet() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Amount converte o texto em valor monetário
func (t Text) Amount() (decimal.Decimal, error) {
	return ParseAmount(string(t))
}

// Quantity converte o texto em quantidade
func (t Text) Quantity() (decimal.Decimal, error) {
	return ParseQuantity(string(t))
}
