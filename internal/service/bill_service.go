package service

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/duosplit/internal/auth"
	"github.com/mmynk/duosplit/internal/extract"
	"github.com/mmynk/duosplit/internal/imageproc"
	"github.com/mmynk/duosplit/internal/middleware"
	"github.com/mmynk/duosplit/internal/session"
	"github.com/mmynk/duosplit/pkg/api"
	"github.com/mmynk/duosplit/pkg/api/apiconnect"
)

// errStaleSession is returned when a token names a bill generation that is
// no longer active.
var errStaleSession = errors.New("bill was reset or replaced, refresh the session")

// Options tunes BillService.
type Options struct {
	// Point-sample window in native pixels. Zero uses the extractor default.
	PointWidth  int
	PointHeight int
}

// BillService implements the Connect BillService
type BillService struct {
	apiconnect.UnimplementedBillServiceHandler
	sessions *session.Manager
	tokens   *auth.SessionTokens
	opts     Options
}

// NewBillService creates a new BillService over the given session manager.
func NewBillService(sessions *session.Manager, tokens *auth.SessionTokens, opts Options) *BillService {
	return &BillService{sessions: sessions, tokens: tokens, opts: opts}
}

// OpenProcedures lists the RPCs callable without a session token.
func OpenProcedures() []string {
	return []string{apiconnect.BillServiceStartBillProcedure}
}

// checkSession verifies the caller's token names the active bill generation.
func (s *BillService) checkSession(ctx context.Context) error {
	billID := middleware.GetBillID(ctx)
	if billID == "" {
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	bill, err := s.sessions.Snapshot()
	if err != nil {
		return toConnectError(err)
	}
	if bill.ID != billID || bill.Generation != middleware.GetGeneration(ctx) {
		return connect.NewError(connect.CodeFailedPrecondition, errStaleSession)
	}
	return nil
}

func (s *BillService) billResponse() (*connect.Response[api.BillResponse], error) {
	summary, err := s.sessions.Summary()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.BillResponse{Bill: toAPIBill(summary)}), nil
}

// StartBill replaces the active bill with a new one and returns its token.
func (s *BillService) StartBill(ctx context.Context, req *connect.Request[api.StartBillRequest]) (*connect.Response[api.StartBillResponse], error) {
	bill := s.sessions.Start(session.Labels{A: req.Msg.PersonA, B: req.Msg.PersonB})
	token, err := s.tokens.Issue(bill.ID, bill.Generation)
	if err != nil {
		slog.Error("StartBill: failed to issue token", "bill_id", bill.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	summary, err := s.sessions.Summary()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.StartBillResponse{Token: token, Bill: toAPIBill(summary)}), nil
}

// ScanBill recognizes prices in the uploaded image, or rescans the previous
// image when none is sent.
func (s *BillService) ScanBill(ctx context.Context, req *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}

	var img image.Image
	if len(req.Msg.Image) > 0 {
		decoded, err := imageproc.DecodeBytes(req.Msg.Image)
		if err != nil {
			return nil, toConnectError(err)
		}
		img = decoded
	}

	strategy, err := toStrategy(req.Msg, s.opts.PointWidth, s.opts.PointHeight)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	_, ex, err := s.sessions.Scan(ctx, img, strategy)
	if err != nil {
		slog.Warn("ScanBill failed", "bill_id", middleware.GetBillID(ctx), "strategy", strategy.Name(), "error", err)
		return nil, toConnectError(err)
	}

	summary, err := s.sessions.Summary()
	if err != nil {
		return nil, toConnectError(err)
	}
	resp := &api.ScanBillResponse{
		Bill:         toAPIBill(summary),
		Found:        len(ex.Items),
		NoCandidates: ex.NoCandidates,
		Engine:       ex.Engine,
	}
	if ex.Total > 0 {
		resp.DetectedTotal = ex.Total.String()
	}
	return connect.NewResponse(resp), nil
}

// AddItem adds a manually entered price.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	a, err := parseAssignment(req.Msg.Assignment)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.sessions.AddManualItem(req.Msg.Amount, a); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// RemoveItem deletes an item.
func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	if err := s.sessions.RemoveItem(req.Msg.ItemId); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// CycleAssignment moves an item to the next assignment: shared, a, b, shared.
func (s *BillService) CycleAssignment(ctx context.Context, req *connect.Request[api.CycleAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	if _, err := s.sessions.CycleAssignment(req.Msg.ItemId); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// SetAssignment assigns an item directly.
func (s *BillService) SetAssignment(ctx context.Context, req *connect.Request[api.SetAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	a, err := parseAssignment(req.Msg.Assignment)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, err := s.sessions.SetAssignment(req.Msg.ItemId, a); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// SetTax selects the tax strategy.
func (s *BillService) SetTax(ctx context.Context, req *connect.Request[api.SetTaxRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	tax, err := parseTax(req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.sessions.SetTax(tax); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// SetTip sets the tip percentage.
func (s *BillService) SetTip(ctx context.Context, req *connect.Request[api.SetTipRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	pct, err := parsePercent(req.Msg.Percent)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.sessions.SetTip(pct); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// SetTotal records the printed total.
func (s *BillService) SetTotal(ctx context.Context, req *connect.Request[api.SetTotalRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	if err := s.sessions.SetDeclaredTotal(req.Msg.Amount); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// SetPeople renames the two parties.
func (s *BillService) SetPeople(ctx context.Context, req *connect.Request[api.SetPeopleRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	if err := s.sessions.SetLabels(session.Labels{A: req.Msg.PersonA, B: req.Msg.PersonB}); err != nil {
		return nil, toConnectError(err)
	}
	return s.billResponse()
}

// GetBill returns the active bill with recomputed totals.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	return s.billResponse()
}

// ResetBill clears the bill and returns a token for the new generation.
// Recognition still running for the old generation is cancelled and its
// result discarded.
func (s *BillService) ResetBill(ctx context.Context, req *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error) {
	if err := s.checkSession(ctx); err != nil {
		return nil, err
	}
	bill, err := s.sessions.Reset()
	if err != nil {
		return nil, toConnectError(err)
	}
	token, err := s.tokens.Issue(bill.ID, bill.Generation)
	if err != nil {
		slog.Error("ResetBill: failed to issue token", "bill_id", bill.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	summary, err := s.sessions.Summary()
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ResetBillResponse{Token: token, Bill: toAPIBill(summary)}), nil
}

// toConnectError maps domain errors to Connect codes.
func toConnectError(err error) error {
	var ce *connect.Error
	switch {
	case errors.As(err, &ce):
		return ce
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrNoImage),
		errors.Is(err, session.ErrNoDeclaredTotal):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, session.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, session.ErrRecognitionInProgress),
		errors.Is(err, session.ErrSessionReset):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, extract.ErrRecognition):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, session.ErrInvalidManualEntry),
		errors.Is(err, imageproc.ErrDecode),
		errors.Is(err, imageproc.ErrProcessing),
		errors.Is(err, imageproc.ErrSelectionTooSmall):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
