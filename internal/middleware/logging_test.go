package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/duosplit/pkg/api"
)

// captureLogs routes the default logger into a buffer for the test's duration.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestLoggingInterceptorScan(t *testing.T) {
	buf := captureLogs(t)
	next := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&api.ScanBillResponse{Engine: "tesseract", Found: 3, DetectedTotal: "12.49"}), nil
	})

	req := connect.NewRequest(&api.ScanBillRequest{
		Strategy: api.StrategyPointSample,
		Points:   []*api.Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	})
	ctx := WithSession(context.Background(), "bill-1", 2)
	if _, err := LoggingInterceptor()(next)(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := decodeLine(t, buf)
	want := map[string]any{
		"level":          "INFO",
		"bill_id":        "bill-1",
		"generation":     float64(2),
		"strategy":       api.StrategyPointSample,
		"points":         float64(2),
		"engine":         "tesseract",
		"found":          float64(3),
		"detected_total": "12.49",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestLoggingInterceptorErrorLevels(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  string
	}{
		{
			name:      "caller mistake",
			err:       connect.NewError(connect.CodeInvalidArgument, errors.New("bad amount")),
			wantLevel: "WARN",
			wantCode:  "invalid_argument",
		},
		{
			name:      "lost race",
			err:       connect.NewError(connect.CodeAborted, errors.New("recognition already in progress")),
			wantLevel: "WARN",
			wantCode:  "aborted",
		},
		{
			name:      "engine outage",
			err:       connect.NewError(connect.CodeUnavailable, errors.New("recognition failed")),
			wantLevel: "ERROR",
			wantCode:  "unavailable",
		},
		{
			name:      "plain error",
			err:       errors.New("boom"),
			wantLevel: "ERROR",
			wantCode:  "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			next := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				return nil, tt.err
			})

			req := connect.NewRequest(&api.SetTaxRequest{Source: "declared"})
			if _, err := LoggingInterceptor()(next)(context.Background(), req); !errors.Is(err, tt.err) {
				t.Fatalf("expected the handler error back, got %v", err)
			}

			entry := decodeLine(t, buf)
			if entry["level"] != tt.wantLevel || entry["code"] != tt.wantCode {
				t.Errorf("level/code = %v/%v, want %s/%s", entry["level"], entry["code"], tt.wantLevel, tt.wantCode)
			}
			if entry["tax_source"] != "declared" {
				t.Errorf("tax_source = %v, want declared", entry["tax_source"])
			}
		})
	}
}

func TestLoggingInterceptorNewGeneration(t *testing.T) {
	buf := captureLogs(t)
	next := connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&api.ResetBillResponse{Bill: &api.Bill{Id: "bill-2", Generation: 5}}), nil
	})

	ctx := WithSession(context.Background(), "bill-1", 4)
	if _, err := LoggingInterceptor()(next)(ctx, connect.NewRequest(&api.ResetBillRequest{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry := decodeLine(t, buf)
	if entry["generation"] != float64(4) || entry["new_generation"] != float64(5) || entry["new_bill_id"] != "bill-2" {
		t.Errorf("unexpected generation fields: %v", entry)
	}
}
