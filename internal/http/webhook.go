package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"fortuno/internal/core"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const adviceFailureReply = "No pude procesar tu consulta. Por favor, inténtalo de nuevo."

// handleWebhook processes one Telegram update. The HTTP status only
// reflects transport-level outcome: a business failure still acknowledges
// with 200 so Telegram does not redeliver the same update.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		slog.WarnContext(ctx, "Invalid method on /webhook", "method", r.Method)
		w.Header().Set("Allow", "POST")
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Invalid method"})
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		slog.ErrorContext(ctx, "Error decoding update JSON", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	if update.Message == nil || update.Message.Chat == nil || update.Message.Chat.ID == 0 {
		slog.ErrorContext(ctx, "Failed to retrieve chat_id from update")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chat_id not found"})
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	cmd := core.ParseCommand(text)

	var reply string
	if cmd.Kind == core.CmdFreeText {
		reply = s.advise(ctx, chatID, cmd.Text)
	} else {
		reply = s.executor.Execute(ctx, chatID, cmd)
	}

	if err := s.notifier.Send(ctx, chatID, reply); err != nil {
		slog.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// advise runs the free-text fallback; failures become a canned apology.
func (s *Server) advise(ctx context.Context, chatID int64, question string) string {
	answer, err := s.advisor.Answer(ctx, question)
	if err != nil {
		slog.ErrorContext(ctx, "Advice fallback failed", "error", err, "chat_id", chatID)
		return adviceFailureReply
	}
	return answer
}
