package sheetcopy

import (
	"sort"
	"strings"
	"unicode"

	"github.com/xuri/efp"
)

// UnreadableFormula stands in for a formula whose text the reader could not
// expose.
const UnreadableFormula = "=FORMULA_EXISTS_BUT_CANNOT_READ"

// FunctionName is one localized → destination function name substitution.
type FunctionName struct {
	Localized   string
	Destination string
}

// DefaultFunctionNames is the Russian-locale table.
var DefaultFunctionNames = []FunctionName{
	{"СУММ", "SUM"},
	{"СУММЕСЛИ", "SUMIF"},
	{"СУММЕСЛИМН", "SUMIFS"},
	{"СУММПРОИЗВ", "SUMPRODUCT"},
	{"СРЗНАЧ", "AVERAGE"},
	{"СРЗНАЧЕСЛИ", "AVERAGEIF"},
	{"СЧЁТ", "COUNT"},
	{"СЧЕТ", "COUNT"},
	{"СЧЁТЗ", "COUNTA"},
	{"СЧЕТЗ", "COUNTA"},
	{"СЧЁТЕСЛИ", "COUNTIF"},
	{"СЧЕТЕСЛИ", "COUNTIF"},
	{"СЧИТАТЬПУСТОТЫ", "COUNTBLANK"},
	{"ЕСЛИ", "IF"},
	{"ЕСЛИОШИБКА", "IFERROR"},
	{"И", "AND"},
	{"ИЛИ", "OR"},
	{"НЕ", "NOT"},
	{"ВПР", "VLOOKUP"},
	{"ГПР", "HLOOKUP"},
	{"ИНДЕКС", "INDEX"},
	{"ПОИСКПОЗ", "MATCH"},
	{"МАКС", "MAX"},
	{"МИН", "MIN"},
	{"ОКРУГЛ", "ROUND"},
	{"ОКРУГЛВВЕРХ", "ROUNDUP"},
	{"ОКРУГЛВНИЗ", "ROUNDDOWN"},
	{"ЦЕЛОЕ", "INT"},
	{"ABS", "ABS"},
	{"СЦЕПИТЬ", "CONCATENATE"},
	{"СЦЕП", "CONCAT"},
	{"ТЕКСТ", "TEXT"},
	{"ЛЕВСИМВ", "LEFT"},
	{"ПРАВСИМВ", "RIGHT"},
	{"ПСТР", "MID"},
	{"ДЛСТР", "LEN"},
	{"СЖПРОБЕЛЫ", "TRIM"},
	{"ПРОПИСН", "UPPER"},
	{"СТРОЧН", "LOWER"},
	{"СЕГОДНЯ", "TODAY"},
	{"ТДАТА", "NOW"},
	{"ДАТА", "DATE"},
	{"ГОД", "YEAR"},
	{"МЕСЯЦ", "MONTH"},
	{"ДЕНЬ", "DAY"},
	{"ЕПУСТО", "ISBLANK"},
	{"ЕЧИСЛО", "ISNUMBER"},
}

// Translator rewrites localized function names in formulas.
type Translator struct {
	names map[string]string
}

// NewTranslator builds a translator over table. Later entries override
// earlier ones with the same localized name.
func NewTranslator(table []FunctionName) *Translator {
	names := make(map[string]string, len(table))
	for _, fn := range table {
		names[strings.ToUpper(fn.Localized)] = fn.Destination
	}
	return &Translator{names: names}
}

// Translate returns formula with every known function call renamed. Values
// that are not formulas are returned unchanged, as are formulas that call no
// listed function. String literals and sheet names are never rewritten.
func (t *Translator) Translate(formula string) string {
	if !strings.HasPrefix(formula, "=") || len(t.names) == 0 {
		return formula
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	if tokens == nil {
		return formula
	}

	renamed := false
	for i, tok := range tokens {
		if tok.TType != efp.TokenTypeFunction || tok.TSubType != efp.TokenSubTypeStart {
			continue
		}
		if dest, ok := t.names[strings.ToUpper(tok.TValue)]; ok && dest != tok.TValue {
			tokens[i].TValue = dest
			renamed = true
		}
	}
	if !renamed {
		return formula
	}
	return render(tokens)
}

// efp reports array constants as pseudo functions.
const (
	arrayStart    = "ARRAY"
	arrayRowStart = "ARRAYROW"
)

// render rebuilds formula text from tokens. It follows efp's own Render but
// keeps doubled quotes inside string literals, quotes sheet names that need
// it and writes array constants back with braces.
func render(tokens []efp.Token) string {
	var b strings.Builder
	var open []string
	rowClosed := false

	for _, tok := range tokens {
		closedRow := false
		switch {
		case tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStart:
			open = append(open, tok.TValue)
			switch tok.TValue {
			case arrayStart:
				b.WriteByte('{')
			case arrayRowStart:
			default:
				b.WriteString(tok.TValue)
				b.WriteByte('(')
			}
		case tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStop:
			name := ""
			if n := len(open); n > 0 {
				name = open[n-1]
				open = open[:n-1]
			}
			switch name {
			case arrayStart:
				b.WriteByte('}')
			case arrayRowStart:
				closedRow = true
			default:
				b.WriteByte(')')
			}
		case tok.TType == efp.TokenTypeSubexpression && tok.TSubType == efp.TokenSubTypeStart:
			b.WriteByte('(')
		case tok.TType == efp.TokenTypeSubexpression && tok.TSubType == efp.TokenSubTypeStop:
			b.WriteByte(')')
		case tok.TType == efp.TokenTypeArgument && rowClosed:
			b.WriteByte(';')
		case tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeText:
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(tok.TValue, `"`, `""`))
			b.WriteByte('"')
		case tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange:
			b.WriteString(quoteSheet(tok.TValue))
		case tok.TType == efp.TokenTypeOperatorInfix && tok.TSubType == efp.TokenSubTypeIntersection:
			b.WriteByte(' ')
		default:
			b.WriteString(tok.TValue)
		}
		rowClosed = closedRow
	}
	return b.String()
}

// quoteSheet puts the sheet part of a reference back in single quotes when
// it holds anything but letters, digits, dots and underscores. efp strips
// those quotes while tokenizing.
func quoteSheet(ref string) string {
	i := strings.LastIndexByte(ref, '!')
	if i <= 0 {
		return ref
	}
	sheet := ref[:i]
	plain := true
	for _, r := range sheet {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			plain = false
			break
		}
	}
	if plain {
		return ref
	}
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'" + ref[i:]
}

// Names returns the localized names the translator knows, sorted.
func (t *Translator) Names() []string {
	out := make([]string, 0, len(t.names))
	for name := range t.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
