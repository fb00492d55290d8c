package core

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"start", "/start", Command{Kind: CmdStart}},
		{"start with trailing text", "/start hola", Command{Kind: CmdStart}},
		{"balance", "/saldo", Command{Kind: CmdBalance}},
		{"categories", "/categorias", Command{Kind: CmdCategories}},
		{
			"income",
			"/ingreso 500 Sueldo",
			Command{Kind: CmdIncome, Amount: Money{Cents: 50000}, Category: "Sueldo"},
		},
		{
			"expense",
			"/gasto 50 Transporte",
			Command{Kind: CmdExpense, Amount: Money{Cents: 5000}, Category: "Transporte"},
		},
		{
			"decimal amount",
			"/ingreso 12.34 Varios",
			Command{Kind: CmdIncome, Amount: Money{Cents: 1234}, Category: "Varios"},
		},
		{
			"category kept verbatim",
			"/gasto 10 CoMiDa",
			Command{Kind: CmdExpense, Amount: Money{Cents: 1000}, Category: "CoMiDa"},
		},
		{"income missing args", "/ingreso", Command{Kind: CmdFormatError, Text: UsageIncome}},
		{"income one arg", "/ingreso 100", Command{Kind: CmdFormatError, Text: UsageIncome}},
		{"income extra args", "/ingreso 100 Comida rica", Command{Kind: CmdFormatError, Text: UsageIncome}},
		{"income bad amount", "/ingreso abc Comida", Command{Kind: CmdFormatError, Text: UsageIncome}},
		{"income negative amount", "/ingreso -5 Comida", Command{Kind: CmdFormatError, Text: UsageIncome}},
		{"expense bad amount", "/gasto x y", Command{Kind: CmdFormatError, Text: UsageExpense}},
		{"unknown command", "/ayuda", Command{Kind: CmdUnknown}},
		{"unknown slash", "/foo 1 2", Command{Kind: CmdUnknown}},
		{"free text", "How do I save money?", Command{Kind: CmdFreeText, Text: "How do I save money?"}},
		{"empty text", "", Command{Kind: CmdFreeText, Text: ""}},
		{"whitespace only", "   ", Command{Kind: CmdFreeText, Text: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.in)
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
