package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVerdict(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{"plain success", 200, "success", true},
		{"success in sentence", 200, "ok success", true},
		{"mixed case", 200, "Tokens stored. SUCCESS", true},
		{"created", 201, "success", true},
		{"phone not found", 200, "Client number not found.", false},
		{"empty body", 200, "", false},
		{"success word with 5xx", 500, "success", false},
		{"success word with 4xx", 404, "success", false},
		{"redirect", 302, "success", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Verdict(tc.status, tc.body); got != tc.want {
				t.Fatalf("Verdict(%d, %q) = %v, want %v", tc.status, tc.body, got, tc.want)
			}
		})
	}
}

func TestWebhook_ForwardTokens(t *testing.T) {
	var got tokenPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte("stored success"))
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, time.Second, false)
	wh.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	ok := wh.ForwardTokens(context.Background(), TokenDelivery{
		ClientID:     "client_1",
		PhoneNumber:  "+15550001234",
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresIn:    3600,
	})
	if !ok {
		t.Fatal("expected success verdict")
	}

	if got.ClientID != "client_1" || got.PhoneNumber != "+15550001234" {
		t.Errorf("identity not forwarded: %+v", got)
	}
	if got.AccessToken != "at" || got.RefreshToken != "rt" || got.ExpiresIn != 3600 {
		t.Errorf("credentials not forwarded: %+v", got)
	}
	if got.ExpiresAt != 1_700_000_000+3600 {
		t.Errorf("jobber_expires_at = %d, want absolute expiry", got.ExpiresAt)
	}
}

func TestWebhook_ForwardTokens_RejectionVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Client number not found."))
	}))
	defer srv.Close()

	if NewWebhook(srv.URL, time.Second, false).ForwardTokens(context.Background(), TokenDelivery{}) {
		t.Fatal("expected failure verdict")
	}
}

func TestWebhook_ForwardTokens_TransportErrorDowngrades(t *testing.T) {
	// Closed server: the POST fails at transport level.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if NewWebhook(srv.URL, time.Second, false).ForwardTokens(context.Background(), TokenDelivery{}) {
		t.Fatal("transport error must yield failure verdict, not panic or success")
	}
}

func TestWebhook_ForwardTokens_MissingEndpointPolicy(t *testing.T) {
	if NewWebhook("", time.Second, false).ForwardTokens(context.Background(), TokenDelivery{}) {
		t.Fatal("fail-closed policy: no endpoint must mean failure")
	}
	if !NewWebhook("", time.Second, true).ForwardTokens(context.Background(), TokenDelivery{}) {
		t.Fatal("permissive policy: no endpoint must mean success")
	}
}

func TestWebhook_ForwardDisconnect(t *testing.T) {
	var got disconnectPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, time.Second, false)
	if err := wh.ForwardDisconnect(context.Background(), "+15550001234", ""); err != nil {
		t.Fatalf("disconnect: %v", err)
	}
	if got.Phone != "+15550001234" {
		t.Errorf("phone = %q", got.Phone)
	}
	if got.Trigger != "jobber_disconnect" {
		t.Errorf("trigger = %q, want default", got.Trigger)
	}
}

func TestWebhook_ForwardDisconnect_Unconfigured(t *testing.T) {
	err := NewWebhook("", time.Second, true).ForwardDisconnect(context.Background(), "+15550001234", "")
	if err != ErrUnconfigured {
		t.Fatalf("expected ErrUnconfigured, got %v", err)
	}
}

func TestWebhook_ForwardDisconnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := NewWebhook(srv.URL, time.Second, false).ForwardDisconnect(context.Background(), "+15550001234", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable wrap, got %v", err)
	}
}
