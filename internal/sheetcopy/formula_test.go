package sheetcopy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate_NonFormulaUnchanged(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	for _, v := range []string{"hello", "42", "", "СУММ(A1)", " =SUM(A1)"} {
		assert.Equal(t, v, tr.Translate(v))
	}
}

func TestTranslate_ListedNames(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	cases := map[string]string{
		"=СУММ(A1:A10)":                   "=SUM(A1:A10)",
		"=ЕСЛИ(A1>0,СУММ(B1:B2),0)":       "=IF(A1>0,SUM(B1:B2),0)",
		"=ВПР(A2,Лист2!A:B,2,0)":          "=VLOOKUP(A2,Лист2!A:B,2,0)",
		"=суммеслимн(C:C,A:A,\"x\")":      "=SUMIFS(C:C,A:A,\"x\")",
		"=ЕСЛИОШИБКА(1/0,\"\")":           "=IFERROR(1/0,\"\")",
		"=И(A1,ИЛИ(B1,НЕ(C1)))":           "=AND(A1,OR(B1,NOT(C1)))",
		"=СЧЁТЕСЛИ(A:A,\">0\")+СЧЁТ(B:B)": "=COUNTIF(A:A,\">0\")+COUNT(B:B)",
	}
	for in, want := range cases {
		assert.Equal(t, want, tr.Translate(in), in)
	}
}

func TestTranslate_UnlistedNamesUntouched(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	assert.Equal(t, "=XLOOKUP(A1,B:B,C:C)", tr.Translate("=XLOOKUP(A1,B:B,C:C)"))
	assert.Equal(t, "=SUM(A1:A3)", tr.Translate("=SUM(A1:A3)"))
	assert.Equal(t, "=STDEV.S(A1:A3)", tr.Translate("=STDEV.S(A1:A3)"))
}

func TestTranslate_ShortNameInsideLongerName(t *testing.T) {
	// "И" must not be replaced inside "ЕСЛИ" or "СУММЕСЛИ".
	tr := NewTranslator(DefaultFunctionNames)
	assert.Equal(t, "=SUMIF(A:A,1,B:B)", tr.Translate("=СУММЕСЛИ(A:A,1,B:B)"))
	assert.Equal(t, "=IF(AND(A1,B1),1,0)", tr.Translate("=ЕСЛИ(И(A1,B1),1,0)"))
}

func TestTranslate_StringLiteralsAndSheetNamesUntouched(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	assert.Equal(t, `=IF(A1="СУММ(x)","ЕСЛИ(""y"")",0)`, tr.Translate(`=ЕСЛИ(A1="СУММ(x)","ЕСЛИ(""y"")",0)`))
	assert.Equal(t, "=SUM('СУММ(1)'!A1:A2)", tr.Translate("=СУММ('СУММ(1)'!A1:A2)"))
}

func TestTranslate_QuotedSheetNamesKeepQuotes(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	assert.Equal(t, "=SUM('Лист 1'!A1:A3)", tr.Translate("=СУММ('Лист 1'!A1:A3)"))
	assert.Equal(t, "=SUM('O''Brien'!B2,Лист2!C3)", tr.Translate("=СУММ('O''Brien'!B2,Лист2!C3)"))
}

func TestTranslate_ArrayConstants(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	assert.Equal(t, "=SUM({1,2;3,4})", tr.Translate("=СУММ({1,2;3,4})"))
	assert.Equal(t, `=MATCH("b",{"a","b"},0)`, tr.Translate(`=ПОИСКПОЗ("b",{"a","b"},0)`))
}

func TestTranslate_OperatorsAndWhitespace(t *testing.T) {
	tr := NewTranslator(DefaultFunctionNames)
	// Insignificant whitespace is dropped once a name has been rewritten.
	assert.Equal(t, `=ROUND(-A1*10%,2)&" шт"`, tr.Translate(`=ОКРУГЛ( -A1 * 10% , 2 ) & " шт"`))
	assert.Equal(t, "=SUM(A1:C3 B2:B4)", tr.Translate("=СУММ(A1:C3 B2:B4)"))
	assert.Equal(t, "=IF(A1<>0,1/A1,#N/A)", tr.Translate("=ЕСЛИ(A1<>0,1/A1,#N/A)"))
}

func TestTranslate_CellReferenceNotMistakenForFunction(t *testing.T) {
	tr := NewTranslator([]FunctionName{{"A", "NOPE"}})
	assert.Equal(t, "=A1+NOPE(2)", tr.Translate("=A1+A(2)"))
}

func TestTranslate_EmptyTable(t *testing.T) {
	tr := NewTranslator(nil)
	assert.Equal(t, "=СУММ(A1)", tr.Translate("=СУММ(A1)"))
	assert.Empty(t, tr.Names())
}
