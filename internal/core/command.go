package core

import "strings"

// CommandKind enumerates every outcome of parsing an inbound message. The
// executor switches over this closed set, so adding a command means adding
// a constant here and a case there.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdBalance
	CmdIncome
	CmdExpense
	CmdCategories
	CmdUnknown
	CmdFormatError
	CmdFreeText
)

// Command is the parsed form of an inbound message.
//
// Amount and Category are set for CmdIncome/CmdExpense. Text carries the
// raw message for CmdFreeText and the usage hint for CmdFormatError.
type Command struct {
	Kind     CommandKind
	Amount   Money
	Category string
	Text     string
}

const (
	UsageIncome  = "Por favor, usa el formato: /ingreso [monto] [categoría]."
	UsageExpense = "Por favor, usa el formato: /gasto [monto] [categoría]."
)

// ParseCommand classifies raw message text by its first whitespace-delimited
// token. Unknown slash commands map to CmdUnknown; anything not starting
// with "/" is free text for the advice fallback.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{Kind: CmdFreeText, Text: text}
	}

	switch fields[0] {
	case "/start":
		return Command{Kind: CmdStart}
	case "/saldo":
		return Command{Kind: CmdBalance}
	case "/ingreso":
		return parseEntry(fields, Income, UsageIncome)
	case "/gasto":
		return parseEntry(fields, Expense, UsageExpense)
	case "/categorias":
		return Command{Kind: CmdCategories}
	default:
		return Command{Kind: CmdUnknown}
	}
}

// parseEntry handles "/ingreso <monto> <categoría>" and its /gasto twin.
// Exactly two arguments are required; the category name is taken verbatim,
// so "Comida" and "comida" stay distinct categories.
func parseEntry(fields []string, kind Kind, usage string) Command {
	if len(fields) != 3 {
		return Command{Kind: CmdFormatError, Text: usage}
	}
	amount, err := ParseAmount(fields[1])
	if err != nil {
		return Command{Kind: CmdFormatError, Text: usage}
	}
	k := CmdIncome
	if kind == Expense {
		k = CmdExpense
	}
	return Command{Kind: k, Amount: amount, Category: fields[2]}
}
