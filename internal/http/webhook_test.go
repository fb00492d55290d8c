package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"fortuno/internal/ledger/memory"
	"fortuno/internal/services"
)

// recordingNotifier captures every reply instead of calling Telegram.
type recordingNotifier struct {
	mu      sync.Mutex
	chatIDs []int64
	texts   []string
	fail    bool
}

func (n *recordingNotifier) Send(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("telegram unreachable")
	}
	n.chatIDs = append(n.chatIDs, chatID)
	n.texts = append(n.texts, text)
	return nil
}

func (n *recordingNotifier) last() (int64, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.texts) == 0 {
		return 0, ""
	}
	return n.chatIDs[len(n.chatIDs)-1], n.texts[len(n.texts)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.texts)
}

// stubAdvisor returns a fixed answer or error.
type stubAdvisor struct {
	answer string
	err    error
}

func (a stubAdvisor) Answer(context.Context, string) (string, error) {
	return a.answer, a.err
}

func newTestServer(advisor Advisor) (*Server, *memory.Store, *recordingNotifier) {
	store := memory.New()
	notifier := &recordingNotifier{}
	srv := NewServer(":0", services.NewExecutor(store, nil), advisor, notifier)
	return srv, store, notifier
}

func postUpdate(t *testing.T, srv *Server, chatID int64, text string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"message": {"chat": {"id": %d}, "text": %q}}`, chatID, text)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return got
}

func TestWebhookExpenseForNewChat(t *testing.T) {
	srv, store, notifier := newTestServer(stubAdvisor{})

	rec := postUpdate(t, srv, 111, "/gasto 50 Transporte")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeBody(t, rec); got["status"] != "ok" {
		t.Errorf("body = %v, want status ok", got)
	}

	chatID, reply := notifier.last()
	if chatID != 111 {
		t.Errorf("reply sent to chat %d, want 111", chatID)
	}
	if !strings.Contains(reply, "-50") {
		t.Errorf("reply %q should contain the negative balance", reply)
	}

	txs := store.Transactions()
	if len(txs) != 1 || txs[0].Amount.Cents != -5000 {
		t.Errorf("unexpected transactions %+v", txs)
	}
}

func TestWebhookFormatErrorLeavesBalanceUnchanged(t *testing.T) {
	srv, store, notifier := newTestServer(stubAdvisor{})

	rec := postUpdate(t, srv, 5, "/ingreso abc Comida")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	_, reply := notifier.last()
	if !strings.Contains(reply, "/ingreso [monto] [categoría]") {
		t.Errorf("reply %q should carry the usage hint", reply)
	}
	if len(store.Transactions()) != 0 {
		t.Error("format error must not record a transaction")
	}

	postUpdate(t, srv, 5, "/saldo")
	_, reply = notifier.last()
	if reply != "Tu saldo actual es: 0.00" {
		t.Errorf("balance reply = %q, want zero balance", reply)
	}
}

func TestWebhookFreeTextRoutedToAdvisor(t *testing.T) {
	srv, store, notifier := newTestServer(stubAdvisor{answer: "Ahorra el 10% de tus ingresos."})

	rec := postUpdate(t, srv, 9, "How do I save money?")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	_, reply := notifier.last()
	if reply != "Ahorra el 10% de tus ingresos." {
		t.Errorf("reply = %q, want the advisor's answer verbatim", reply)
	}
	if len(store.Transactions()) != 0 {
		t.Error("free text must not touch the ledger")
	}
}

func TestWebhookAdvisorFailureBecomesApology(t *testing.T) {
	srv, _, notifier := newTestServer(stubAdvisor{err: errors.New("upstream timeout")})

	rec := postUpdate(t, srv, 9, "should I buy gold?")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on advice failure", rec.Code)
	}

	_, reply := notifier.last()
	if reply != adviceFailureReply {
		t.Errorf("reply = %q, want %q", reply, adviceFailureReply)
	}
}

func TestWebhookInvalidJSON(t *testing.T) {
	srv, store, notifier := newTestServer(stubAdvisor{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != "Invalid JSON" {
		t.Errorf("body = %v", got)
	}
	if notifier.count() != 0 {
		t.Error("no reply should be sent for malformed requests")
	}
	if len(store.Transactions()) != 0 {
		t.Error("malformed requests must have no side effects")
	}
}

func TestWebhookMissingChatID(t *testing.T) {
	srv, _, notifier := newTestServer(stubAdvisor{})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"message": {"text": "/saldo"}}`))
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != "chat_id not found" {
		t.Errorf("body = %v", got)
	}
	if notifier.count() != 0 {
		t.Error("no reply should be sent without a chat id")
	}
}

func TestWebhookRejectsNonPOST(t *testing.T) {
	srv, _, _ := newTestServer(stubAdvisor{})

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if got := decodeBody(t, rec); got["error"] != "Invalid method" {
		t.Errorf("body = %v", got)
	}
}

func TestWebhookNotifierFailureStillAcknowledges(t *testing.T) {
	store := memory.New()
	notifier := &recordingNotifier{fail: true}
	srv := NewServer(":0", services.NewExecutor(store, nil), stubAdvisor{}, notifier)

	rec := postUpdate(t, srv, 3, "/saldo")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite notifier failure", rec.Code)
	}
}

func TestWebhookConcurrentIncomesForSameChat(t *testing.T) {
	srv, _, notifier := newTestServer(stubAdvisor{})

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			rec := postUpdate(t, srv, 77, "/ingreso 10 X")
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		}()
	}
	wg.Wait()

	postUpdate(t, srv, 77, "/saldo")
	_, reply := notifier.last()
	if reply != "Tu saldo actual es: 20.00" {
		t.Errorf("balance after concurrent incomes = %q, want 20.00", reply)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(stubAdvisor{})

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
