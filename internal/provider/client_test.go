package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCreateCallSendsTwilioForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Calls.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "token" {
			t.Errorf("unexpected auth: %s/%s", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("To"); got != "+15550001" {
			t.Errorf("unexpected To: %s", got)
		}
		if got := r.PostForm.Get("From"); got != "+15550100" {
			t.Errorf("unexpected From: %s", got)
		}
		if got := r.PostForm.Get("Url"); got != "https://example.com/script.xml" {
			t.Errorf("unexpected Url: %s", got)
		}
		if got := r.PostForm.Get("StatusCallback"); got != "https://example.com/status" {
			t.Errorf("unexpected StatusCallback: %s", got)
		}
		if got := r.PostForm["StatusCallbackEvent"]; len(got) != 2 || got[0] != "completed" || got[1] != "failed" {
			t.Errorf("unexpected StatusCallbackEvent: %v", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"CA42","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "AC123", "token", time.Second)
	call, err := client.CreateCall(context.Background(), &CallRequest{
		To:             "+15550001",
		From:           "+15550100",
		VoiceScriptRef: "https://example.com/script.xml",
		StatusCallback: "https://example.com/status",
		CallbackEvents: []string{"completed", "failed"},
	})
	if err != nil {
		t.Fatalf("CreateCall: %v", err)
	}
	if call.ID != "CA42" || call.Status != "queued" {
		t.Fatalf("unexpected resource: %+v", call)
	}
}

func TestCreateMessageSendsTwilioForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if got := r.PostForm.Get("Body"); got != "Evacuate now." {
			t.Errorf("unexpected Body: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM42","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "AC123", "token", time.Second)
	msg, err := client.CreateMessage(context.Background(), &MessageRequest{
		To:   "+15550001",
		From: "+15550100",
		Body: "Evacuate now.",
	})
	if err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	if msg.ID != "SM42" {
		t.Fatalf("unexpected resource: %+v", msg)
	}
}

func TestCreateCallMapsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":21211,"message":"Invalid 'To' Phone Number","status":400}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "AC123", "token", time.Second)
	_, err := client.CreateCall(context.Background(), &CallRequest{To: "bogus", From: "+15550100"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "provider API error [400]") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid 'To' Phone Number") {
		t.Fatalf("expected provider message in error: %v", err)
	}
	if !strings.Contains(err.Error(), "21211") {
		t.Fatalf("expected provider code in error: %v", err)
	}
}

func TestCreateCallHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"sid":"CA1","status":"queued"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "AC123", "token", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.CreateCall(ctx, &CallRequest{To: "+15550001", From: "+15550100"})
	if err == nil {
		t.Fatalf("expected context deadline error")
	}
}
