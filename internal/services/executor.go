// Package services contains the command executor: it applies parsed
// commands against the ledger and produces the reply text sent back to the
// chat.
package services

import (
	"context"
	"log/slog"
	"strings"

	"fortuno/internal/amqp"
	"fortuno/internal/core"
	"fortuno/internal/ledger"
)

const welcomeMessage = "👋 ¡Bienvenido a FortunoBot!\n\n" +
	"Aquí están los comandos que puedes usar:\n" +
	"/saldo - Consulta tu saldo actual\n" +
	"/ingreso [monto] [categoría] - Registra un ingreso (ej.: /ingreso 500 Sueldo)\n" +
	"/gasto [monto] [categoría] - Registra un gasto (ej.: /gasto 100 Comida)\n" +
	"/categorias - Lista todas las categorías disponibles\n\n" +
	"¡Escribe cualquiera de estos comandos para comenzar! Si necesitas ayuda, usa /ayuda."

const unknownMessage = "Comando no reconocido. Usa /ayuda para ver los comandos disponibles."

// Executor applies commands to the ledger. Store failures never surface to
// the end user: they are logged and replaced by a generic apology reply.
type Executor struct {
	ledger ledger.Ledger
	events *amqp.Client // optional, nil disables event publishing
}

func NewExecutor(ledger ledger.Ledger, events *amqp.Client) *Executor {
	return &Executor{
		ledger: ledger,
		events: events,
	}
}

// Execute runs one parsed command for a chat and returns the reply text.
// CmdFreeText is routed to the advice fallback by the webhook and never
// reaches the ledger.
func (x *Executor) Execute(ctx context.Context, chatID int64, cmd core.Command) string {
	switch cmd.Kind {
	case core.CmdStart:
		return welcomeMessage
	case core.CmdBalance:
		return x.balance(ctx, chatID)
	case core.CmdIncome:
		return x.record(ctx, chatID, core.Entry{
			Kind:     core.Income,
			Amount:   cmd.Amount,
			Category: cmd.Category,
		})
	case core.CmdExpense:
		return x.record(ctx, chatID, core.Entry{
			Kind:     core.Expense,
			Amount:   cmd.Amount,
			Category: cmd.Category,
		})
	case core.CmdCategories:
		return x.categories(ctx)
	case core.CmdFormatError:
		return cmd.Text
	default:
		return unknownMessage
	}
}

func (x *Executor) balance(ctx context.Context, chatID int64) string {
	bal, err := x.ledger.Balance(ctx, chatID)
	if err != nil {
		slog.ErrorContext(ctx, "Balance lookup failed", "error", err, "chat_id", chatID)
		return "Ocurrió un error al obtener tu saldo. Por favor, inténtalo de nuevo."
	}
	return "Tu saldo actual es: " + bal.String()
}

func (x *Executor) record(ctx context.Context, chatID int64, e core.Entry) string {
	res, err := x.ledger.Record(ctx, chatID, e)
	if err != nil {
		slog.ErrorContext(ctx, "Transaction record failed",
			"error", err,
			"chat_id", chatID,
			"kind", string(e.Kind),
			"category", e.Category)
		if e.Kind == core.Income {
			return "Ocurrió un error al registrar el ingreso. Por favor, inténtalo de nuevo."
		}
		return "Ocurrió un error al registrar el gasto. Por favor, inténtalo de nuevo."
	}

	x.publish(ctx, chatID, e, res)

	if e.Kind == core.Income {
		return "Ingreso de " + e.Amount.String() + " registrado en la categoría " +
			e.Category + ". Nuevo saldo: " + res.Balance.String()
	}
	return "Gasto de " + e.Amount.String() + " registrado en la categoría " +
		e.Category + ". Nuevo saldo: " + res.Balance.String()
}

func (x *Executor) categories(ctx context.Context) string {
	names, err := x.ledger.Categories(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Category list failed", "error", err)
		return "Ocurrió un error al listar las categorías. Por favor, inténtalo de nuevo."
	}
	if len(names) == 0 {
		return "No tienes categorías registradas."
	}
	return "Categorías disponibles:\n" + strings.Join(names, "\n")
}

// publish sends the transaction event after commit. The entry is already
// durable, so a broker failure is logged and otherwise ignored.
func (x *Executor) publish(ctx context.Context, chatID int64, e core.Entry, res core.RecordResult) {
	if x.events == nil {
		return
	}
	msg := amqp.NewTransactionMessage(chatID, e, res)
	if err := x.events.PublishTransaction(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"error", err,
			"transaction_id", res.TransactionID,
			"chat_id", chatID)
	}
}
