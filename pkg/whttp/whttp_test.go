package whttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"
)

func TestSendHTTPRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Custom") != "yes" {
			t.Errorf("custom header not forwarded")
		}
		fmt.Fprint(w, "<html><head><title>  Robot\nCheck </title></head><body>₹80</body></html>")
	}))
	defer srv.Close()

	res, err := SendHTTPRequest(context.Background(), &WHTTPReq{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Headers: []WHTTPHeader{{Name: "X-Custom", Value: "yes"}},
	}, srv.Client())
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}
	if res.HTTPTitle != "RobotCheck" {
		t.Errorf("title = %q, want newline-stripped %q", res.HTTPTitle, "RobotCheck")
	}
	if res.ResponseLength != utf8.RuneCountInString(res.BodyString) {
		t.Errorf("response length = %d, want rune count %d", res.ResponseLength, utf8.RuneCountInString(res.BodyString))
	}
	if res.ResponseLength == 0 {
		t.Error("expected a non-empty body")
	}
}

func TestStatusText(t *testing.T) {
	r := &WHTTPRes{StatusCode: 503, HTTPTitle: "Access Denied"}
	if got := r.StatusText(); got != "HTTP 503 (Access Denied)" {
		t.Errorf("StatusText = %q", got)
	}

	r = &WHTTPRes{StatusCode: 404}
	if got := r.StatusText(); got != "HTTP 404" {
		t.Errorf("StatusText = %q", got)
	}
}
