package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/duosplit/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every bill RPC.
// Install it inside RequireSession so the session claims are already on the
// context. Scans additionally log the capture strategy and what recognition
// produced; calls that open a new generation log the bill they created.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("bill_id", GetBillID(ctx)), // empty before StartBill
				slog.Uint64("generation", GetGeneration(ctx)),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			attrs = append(attrs, requestAttrs(req.Any())...)

			if err != nil {
				code := connect.CodeOf(err)
				msg := err.Error()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					msg = connectErr.Message()
				}
				attrs = append(attrs, slog.String("code", code.String()), slog.String("error", msg))
				slog.LogAttrs(ctx, levelFor(code), "RPC failed", attrs...)
				return resp, err
			}

			if resp != nil {
				attrs = append(attrs, responseAttrs(resp.Any())...)
			}
			slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
			return resp, nil
		}
	}
}

// levelFor separates caller mistakes and lost races from server faults.
func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeFailedPrecondition,
		connect.CodeUnauthenticated, connect.CodeAborted, connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func requestAttrs(msg any) []slog.Attr {
	switch m := msg.(type) {
	case *api.ScanBillRequest:
		strategy := m.Strategy
		if strategy == "" {
			strategy = api.StrategyWholeImage
		}
		return []slog.Attr{
			slog.String("strategy", strategy),
			slog.Int("image_bytes", len(m.Image)),
			slog.Int("regions", len(m.Regions)),
			slog.Int("points", len(m.Points)),
		}
	case *api.SetTaxRequest:
		return []slog.Attr{slog.String("tax_source", m.Source)}
	}
	return nil
}

func responseAttrs(msg any) []slog.Attr {
	switch m := msg.(type) {
	case *api.ScanBillResponse:
		attrs := []slog.Attr{
			slog.String("engine", m.Engine),
			slog.Int("found", m.Found),
			slog.Bool("no_candidates", m.NoCandidates),
		}
		if m.DetectedTotal != "" {
			attrs = append(attrs, slog.String("detected_total", m.DetectedTotal))
		}
		return attrs
	case *api.StartBillResponse:
		return billAttrs(m.Bill)
	case *api.ResetBillResponse:
		return billAttrs(m.Bill)
	case *api.BillResponse:
		if m.Bill != nil {
			return []slog.Attr{slog.Int("items", len(m.Bill.Items))}
		}
	}
	return nil
}

func billAttrs(b *api.Bill) []slog.Attr {
	if b == nil {
		return nil
	}
	return []slog.Attr{
		slog.String("new_bill_id", b.Id),
		slog.Uint64("new_generation", b.Generation),
	}
}
