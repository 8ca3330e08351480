package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fairyhunter13/printshop/internal/config"
	"github.com/fairyhunter13/printshop/internal/mail"
	"github.com/fairyhunter13/printshop/internal/model"
	"github.com/fairyhunter13/printshop/internal/notify"
	"github.com/fairyhunter13/printshop/internal/obs"
	"github.com/fairyhunter13/printshop/internal/payment"
	"github.com/fairyhunter13/printshop/internal/shop"
	"github.com/fairyhunter13/printshop/internal/store"
	"github.com/fairyhunter13/printshop/internal/uploads"
)

// fakeGateway stands in for the payment provider. VerifyEvent accepts the
// literal signature "valid" and answers the preset event.
type fakeGateway struct {
	mu         sync.Mutex
	intents    int
	lastIntent string
	event      *payment.Event
	refunds    []string
	refundErr  error
}

func (g *fakeGateway) CreateIntent(_ context.Context, _ int64, _ string, _ map[string]string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.intents++
	id := fmt.Sprintf("pi_test_%d", g.intents)
	g.lastIntent = id
	return &payment.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (g *fakeGateway) VerifyEvent(_ []byte, signature string) (*payment.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if signature != "valid" || g.event == nil {
		return nil, model.ErrSignatureInvalid
	}
	return g.event, nil
}

func (g *fakeGateway) Refund(_ context.Context, intentID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, intentID)
	return nil
}

func (g *fakeGateway) setEvent(ev *payment.Event) {
	g.mu.Lock()
	g.event = ev
	g.mu.Unlock()
}

func (g *fakeGateway) lastIntentID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastIntent
}

func (g *fakeGateway) refundedIntents() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.refunds...)
}

// captureSender records delivered mail instead of sending it.
type captureSender struct {
	mu   sync.Mutex
	msgs []mail.Message
}

func (s *captureSender) Send(m mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
	return nil
}

func (s *captureSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.msgs...)
}

// testApp bundles the wired application with the fakes the tests poke at.
type testApp struct {
	app    *App
	store  *store.Store
	mgr    *notify.Manager
	gw     *fakeGateway
	sender *captureSender
	mux    http.Handler
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	obs.InitLogger()

	cfg := config.Load()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	cfg.DatabaseURL = fmt.Sprintf("file:httpapi_%s?mode=memory&cache=shared", name)
	cfg.StripePublishableKey = "pk_test_12345"
	cfg.UploadDir = t.TempDir()

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sender := &captureSender{}
	q := notify.NewQueue(128)
	mgr := notify.NewManager(cfg, q, st, sender)
	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	gw := &fakeGateway{}
	svc := shop.NewService(st, gw, mgr)
	app := NewApp(cfg, st, svc, gw, mgr, uploads.New(cfg.UploadDir))
	mux := NewRouter(app)

	t.Cleanup(func() {
		cancel()
		mgr.Stop()
		_ = st.Close()
	})
	return &testApp{app: app, store: st, mgr: mgr, gw: gw, sender: sender, mux: mux}
}

func seedTestProduct(t *testing.T, st *store.Store, name string, price, stock int64, category string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Slug: model.Slugify(name), Price: price, Stock: stock, Category: category, Visible: true}
	if err := st.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func postJSON(t *testing.T, mux http.Handler, path, body, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, mux http.Handler, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func get(t *testing.T, mux http.Handler, path, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

// sessionCookie extracts the shop session cookie from a response. The cookie
// store keeps session values in the cookie itself, so a response that changed
// the session carries the authoritative copy.
func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	for _, ck := range rr.Result().Cookies() {
		if ck.Name == sessionName {
			return ck.Name + "=" + ck.Value
		}
	}
	return ""
}

// advanceCookie keeps the newest session cookie across a request chain.
func advanceCookie(t *testing.T, rr *httptest.ResponseRecorder, current string) string {
	t.Helper()
	if ck := sessionCookie(t, rr); ck != "" {
		return ck
	}
	return current
}

func loginAdmin(t *testing.T, mux http.Handler) string {
	t.Helper()
	rr := postForm(t, mux, "/admin/login", url.Values{"password": {"admin123"}}, "")
	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302 after login, got %d", rr.Code)
	}
	ck := sessionCookie(t, rr)
	if ck == "" {
		t.Fatalf("expected session cookie after login")
	}
	return ck
}

func drain(t *testing.T, mgr *notify.Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if ok := mgr.DrainUntil(ctx); !ok {
		t.Fatalf("drain timeout")
	}
}
