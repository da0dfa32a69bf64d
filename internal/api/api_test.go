package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"

	"github.com/fastprodman/novabank/internal/config"
	"github.com/fastprodman/novabank/internal/infra/pgtestutil"
	"github.com/fastprodman/novabank/internal/otp"
	accountssvc "github.com/fastprodman/novabank/internal/services/accounts"
	adminsvc "github.com/fastprodman/novabank/internal/services/admin"
	transfersvc "github.com/fastprodman/novabank/internal/services/transfer"
)

var codePattern = regexp.MustCompile(`[0-9]{6}`)

type capturingNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (n *capturingNotifier) Send(_ context.Context, _, _, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.bodies = append(n.bodies, body)

	return nil
}

func (n *capturingNotifier) lastCode(t *testing.T) string {
	t.Helper()

	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.bodies) == 0 {
		t.Fatal("no message was sent")
	}

	code := codePattern.FindString(n.bodies[len(n.bodies)-1])
	if code == "" {
		t.Fatalf("no code in message body: %q", n.bodies[len(n.bodies)-1])
	}

	return code
}

var testAdminCfg = config.AdminConfig{Username: "admin", Password: "admin-secret"}

func newTestServer(t *testing.T) (*httptest.Server, *capturingNotifier) {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	notifier := &capturingNotifier{}
	otps := otp.NewRegistry(otp.NewMemStore())

	h := NewHandler(
		accountssvc.New(db, otps, notifier),
		transfersvc.New(db, otps, transfersvc.NewStaging(), notifier),
		adminsvc.New(db),
	)

	srv := httptest.NewServer(NewRouter(h, testAdminCfg))
	t.Cleanup(srv.Close)

	return srv, notifier
}

// doJSON sends a JSON request and decodes the JSON response body.
func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return resp.StatusCode, decoded
}

func registerUser(t *testing.T, base, n string) string {
	t.Helper()

	status, body := doJSON(t, http.MethodPost, base+"/register", map[string]string{
		"name":     "User " + n,
		"email":    "user" + n + "@example.com",
		"phone":    "900000000" + n,
		"dob":      "1990-01-01",
		"address":  "1 Main St",
		"username": "user" + n,
		"password": "pass" + n,
		"upiPin":   "123456",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("register user%s: status %d, body %v", n, status, body)
	}

	accNo, _ := body["accountNumber"].(string)
	if len(accNo) != 10 {
		t.Fatalf("register user%s: bad account number %q", n, accNo)
	}

	return accNo
}

func TestUserJourney(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	base := srv.URL

	registerUser(t, base, "1")

	status, body := doJSON(t, http.MethodPost, base+"/login", map[string]string{
		"identifier": "user1@example.com",
		"password":   "pass1",
	}, nil)
	if status != http.StatusOK || body["username"] != "user1" {
		t.Fatalf("login: status %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, base+"/accounts/user1/deposit",
		map[string]string{"amount": "500.00"}, nil)
	if status != http.StatusOK || body["balance"] != "500.00" {
		t.Fatalf("deposit: status %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, base+"/accounts/user1/withdraw",
		map[string]string{"amount": "120.50", "upiPin": "123456"}, nil)
	if status != http.StatusOK || body["balance"] != "379.50" {
		t.Fatalf("withdraw: status %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, base+"/accounts/user1/balance", nil, nil)
	if status != http.StatusOK || body["balance"] != "379.50" {
		t.Fatalf("balance: status %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, base+"/accounts/user1/transactions?type=Withdraw", nil, nil)
	if status != http.StatusOK {
		t.Fatalf("transactions: status %d, body %v", status, body)
	}

	txs, _ := body["transactions"].([]any)
	if len(txs) != 1 {
		t.Fatalf("filtered transactions: want 1, got %v", body)
	}

	status, body = doJSON(t, http.MethodGet, base+"/accounts/user1/statement", nil, nil)
	if status != http.StatusOK || body["holderName"] != "User 1" {
		t.Fatalf("statement: status %d, body %v", status, body)
	}

	entries, _ := body["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("statement entries: want 2, got %d", len(entries))
	}
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	base := srv.URL

	registerUser(t, base, "1")

	type tc struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}

	tests := []tc{
		{
			name: "login_wrong_password", method: http.MethodPost, path: "/login",
			body:       map[string]string{"identifier": "user1", "password": "nope"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "duplicate_register", method: http.MethodPost, path: "/register",
			body: map[string]string{
				"name": "User X", "email": "user1@example.com", "phone": "9000000099",
				"dob": "1990-01-01", "username": "userx", "password": "p", "upiPin": "123456",
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "unknown_account_balance", method: http.MethodGet, path: "/accounts/nobody/balance",
			wantStatus: http.StatusNotFound,
		},
		{
			name: "withdraw_wrong_pin", method: http.MethodPost, path: "/accounts/user1/withdraw",
			body:       map[string]string{"amount": "1.00", "upiPin": "000000"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "withdraw_overdraw", method: http.MethodPost, path: "/accounts/user1/withdraw",
			body:       map[string]string{"amount": "99999.00", "upiPin": "123456"},
			wantStatus: http.StatusConflict,
		},
		{
			name: "deposit_too_many_decimals", method: http.MethodPost, path: "/accounts/user1/deposit",
			body:       map[string]string{"amount": "1.001"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "deposit_unknown_field", method: http.MethodPost, path: "/accounts/user1/deposit",
			body:       map[string]string{"amount": "1.00", "bogus": "x"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "confirm_without_request", method: http.MethodPost, path: "/accounts/user1/transfers/confirm",
			body:       map[string]string{"code": "123456"},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, tt.method, base+tt.path, tt.body, nil)
			if status != tt.wantStatus {
				t.Fatalf("want status %d, got %d (body %v)", tt.wantStatus, status, body)
			}
		})
	}
}

func TestTransferOverHTTP(t *testing.T) {
	t.Parallel()

	srv, notifier := newTestServer(t)
	base := srv.URL

	registerUser(t, base, "1")
	bobAcc := registerUser(t, base, "2")

	status, body := doJSON(t, http.MethodPost, base+"/accounts/user1/deposit",
		map[string]string{"amount": "1000.00"}, nil)
	if status != http.StatusOK {
		t.Fatalf("deposit: status %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodPost, base+"/accounts/user1/transfers", map[string]string{
		"receiverAccount": bobAcc,
		"receiverName":    "User 2",
		"amount":          "300.00",
		"upiPin":          "123456",
	}, nil)
	if status != http.StatusAccepted || body["sentTo"] != "user1@example.com" {
		t.Fatalf("transfer request: status %d, body %v", status, body)
	}

	code := notifier.lastCode(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	status, body = doJSON(t, http.MethodPost, base+"/accounts/user1/transfers/confirm",
		map[string]string{"code": wrong}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong code: status %d, body %v", status, body)
	}
	if remaining, ok := body["attempts_remaining"].(float64); !ok || remaining != 4 {
		t.Fatalf("wrong code: want 4 attempts remaining, body %v", body)
	}

	status, body = doJSON(t, http.MethodPost, base+"/accounts/user1/transfers/confirm",
		map[string]string{"code": code}, nil)
	if status != http.StatusOK {
		t.Fatalf("confirm: status %d, body %v", status, body)
	}
	if body["amount"] != "300.00" || body["toAccount"] != bobAcc || body["receiverName"] != "User 2" {
		t.Fatalf("confirm body: %v", body)
	}

	status, body = doJSON(t, http.MethodGet, base+"/accounts/user2/balance", nil, nil)
	if status != http.StatusOK || body["balance"] != "300.00" {
		t.Fatalf("receiver balance: status %d, body %v", status, body)
	}

	// Replay of a consumed code.
	status, _ = doJSON(t, http.MethodPost, base+"/accounts/user1/transfers/confirm",
		map[string]string{"code": code}, nil)
	if status != http.StatusNotFound {
		t.Fatalf("replay: want 404, got %d", status)
	}
}

func TestPasswordResetDoesNotRevealAccounts(t *testing.T) {
	t.Parallel()

	srv, notifier := newTestServer(t)
	base := srv.URL

	registerUser(t, base, "1")

	statusKnown, bodyKnown := doJSON(t, http.MethodPost, base+"/password-reset/request",
		map[string]string{"identifier": "user1"}, nil)
	statusUnknown, bodyUnknown := doJSON(t, http.MethodPost, base+"/password-reset/request",
		map[string]string{"identifier": "nobody"}, nil)

	if statusKnown != http.StatusOK || statusUnknown != http.StatusOK {
		t.Fatalf("want 200 for both, got %d and %d", statusKnown, statusUnknown)
	}
	if fmt.Sprint(bodyKnown) != fmt.Sprint(bodyUnknown) {
		t.Fatalf("responses must not differ: %v vs %v", bodyKnown, bodyUnknown)
	}

	status, body := doJSON(t, http.MethodPost, base+"/password-reset/confirm", map[string]string{
		"email":       "user1@example.com",
		"code":        notifier.lastCode(t),
		"newPassword": "fresh-pass",
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("confirm reset: status %d, body %v", status, body)
	}

	status, _ = doJSON(t, http.MethodPost, base+"/login",
		map[string]string{"identifier": "user1", "password": "fresh-pass"}, nil)
	if status != http.StatusOK {
		t.Fatalf("login with new password: status %d", status)
	}
}

func TestAdminEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	base := srv.URL

	accNo := registerUser(t, base, "1")

	adminHeaders := map[string]string{
		"X-Admin-Username": testAdminCfg.Username,
		"X-Admin-Password": testAdminCfg.Password,
	}

	// No credentials, then wrong credentials.
	status, _ := doJSON(t, http.MethodGet, base+"/admin/accounts", nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("no credentials: want 403, got %d", status)
	}

	status, _ = doJSON(t, http.MethodGet, base+"/admin/accounts", nil, map[string]string{
		"X-Admin-Username": testAdminCfg.Username,
		"X-Admin-Password": "wrong",
	})
	if status != http.StatusForbidden {
		t.Fatalf("wrong credentials: want 403, got %d", status)
	}

	status, body := doJSON(t, http.MethodPost, base+"/admin/deposit", map[string]string{
		"accountNumber": accNo,
		"amount":        "750.00",
	}, adminHeaders)
	if status != http.StatusOK || body["holderName"] != "User 1" {
		t.Fatalf("admin deposit: status %d, body %v", status, body)
	}

	status, body = doJSON(t, http.MethodGet, base+"/admin/accounts", nil, adminHeaders)
	if status != http.StatusOK {
		t.Fatalf("admin accounts: status %d, body %v", status, body)
	}

	accts, _ := body["accounts"].([]any)
	if len(accts) != 1 {
		t.Fatalf("admin accounts: want 1, got %v", body)
	}

	status, body = doJSON(t, http.MethodGet, base+"/admin/transactions?counterparty=ADMIN", nil, adminHeaders)
	if status != http.StatusOK {
		t.Fatalf("admin transactions: status %d, body %v", status, body)
	}

	txs, _ := body["transactions"].([]any)
	if len(txs) != 1 {
		t.Fatalf("admin transactions: want 1 entry, got %v", body)
	}
}
