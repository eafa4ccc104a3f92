// Package apiconnect wires duosplit.v1.BillService to Connect handlers and
// clients. It follows the layout of protoc-gen-connect-go output, using the
// JSON codec from this package in place of protobuf.
package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/duosplit/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "duosplit.v1.BillService"

// These constants are the fully-qualified names of the RPCs defined in this package. They're
// exposed at runtime as Spec.Procedure and as the final two segments of the HTTP route.
const (
	// BillServiceStartBillProcedure is the fully-qualified name of the BillService's StartBill RPC.
	BillServiceStartBillProcedure = "/duosplit.v1.BillService/StartBill"
	// BillServiceScanBillProcedure is the fully-qualified name of the BillService's ScanBill RPC.
	BillServiceScanBillProcedure = "/duosplit.v1.BillService/ScanBill"
	// BillServiceAddItemProcedure is the fully-qualified name of the BillService's AddItem RPC.
	BillServiceAddItemProcedure = "/duosplit.v1.BillService/AddItem"
	// BillServiceRemoveItemProcedure is the fully-qualified name of the BillService's RemoveItem RPC.
	BillServiceRemoveItemProcedure = "/duosplit.v1.BillService/RemoveItem"
	// BillServiceCycleAssignmentProcedure is the fully-qualified name of the BillService's CycleAssignment RPC.
	BillServiceCycleAssignmentProcedure = "/duosplit.v1.BillService/CycleAssignment"
	// BillServiceSetAssignmentProcedure is the fully-qualified name of the BillService's SetAssignment RPC.
	BillServiceSetAssignmentProcedure = "/duosplit.v1.BillService/SetAssignment"
	// BillServiceSetTaxProcedure is the fully-qualified name of the BillService's SetTax RPC.
	BillServiceSetTaxProcedure = "/duosplit.v1.BillService/SetTax"
	// BillServiceSetTipProcedure is the fully-qualified name of the BillService's SetTip RPC.
	BillServiceSetTipProcedure = "/duosplit.v1.BillService/SetTip"
	// BillServiceSetTotalProcedure is the fully-qualified name of the BillService's SetTotal RPC.
	BillServiceSetTotalProcedure = "/duosplit.v1.BillService/SetTotal"
	// BillServiceSetPeopleProcedure is the fully-qualified name of the BillService's SetPeople RPC.
	BillServiceSetPeopleProcedure = "/duosplit.v1.BillService/SetPeople"
	// BillServiceGetBillProcedure is the fully-qualified name of the BillService's GetBill RPC.
	BillServiceGetBillProcedure = "/duosplit.v1.BillService/GetBill"
	// BillServiceResetBillProcedure is the fully-qualified name of the BillService's ResetBill RPC.
	BillServiceResetBillProcedure = "/duosplit.v1.BillService/ResetBill"
)

// BillServiceClient is a client for the duosplit.v1.BillService service.
type BillServiceClient interface {
	StartBill(context.Context, *connect.Request[api.StartBillRequest]) (*connect.Response[api.StartBillResponse], error)
	ScanBill(context.Context, *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error)
	CycleAssignment(context.Context, *connect.Request[api.CycleAssignmentRequest]) (*connect.Response[api.BillResponse], error)
	SetAssignment(context.Context, *connect.Request[api.SetAssignmentRequest]) (*connect.Response[api.BillResponse], error)
	SetTax(context.Context, *connect.Request[api.SetTaxRequest]) (*connect.Response[api.BillResponse], error)
	SetTip(context.Context, *connect.Request[api.SetTipRequest]) (*connect.Response[api.BillResponse], error)
	SetTotal(context.Context, *connect.Request[api.SetTotalRequest]) (*connect.Response[api.BillResponse], error)
	SetPeople(context.Context, *connect.Request[api.SetPeopleRequest]) (*connect.Response[api.BillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillResponse], error)
	ResetBill(context.Context, *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error)
}

// NewBillServiceClient constructs a client for the duosplit.v1.BillService service. The client
// always uses the JSON codec.
//
// The URL supplied here should be the base URL for the Connect server (for example,
// http://api.acme.com or https://acme.com/grpc).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &billServiceClient{
		startBill: connect.NewClient[api.StartBillRequest, api.StartBillResponse](httpClient, baseURL+BillServiceStartBillProcedure, opts...),
		scanBill: connect.NewClient[api.ScanBillRequest, api.ScanBillResponse](httpClient, baseURL+BillServiceScanBillProcedure, opts...),
		addItem: connect.NewClient[api.AddItemRequest, api.BillResponse](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		removeItem: connect.NewClient[api.RemoveItemRequest, api.BillResponse](httpClient, baseURL+BillServiceRemoveItemProcedure, opts...),
		cycleAssignment: connect.NewClient[api.CycleAssignmentRequest, api.BillResponse](httpClient, baseURL+BillServiceCycleAssignmentProcedure, opts...),
		setAssignment: connect.NewClient[api.SetAssignmentRequest, api.BillResponse](httpClient, baseURL+BillServiceSetAssignmentProcedure, opts...),
		setTax: connect.NewClient[api.SetTaxRequest, api.BillResponse](httpClient, baseURL+BillServiceSetTaxProcedure, opts...),
		setTip: connect.NewClient[api.SetTipRequest, api.BillResponse](httpClient, baseURL+BillServiceSetTipProcedure, opts...),
		setTotal: connect.NewClient[api.SetTotalRequest, api.BillResponse](httpClient, baseURL+BillServiceSetTotalProcedure, opts...),
		setPeople: connect.NewClient[api.SetPeopleRequest, api.BillResponse](httpClient, baseURL+BillServiceSetPeopleProcedure, opts...),
		getBill: connect.NewClient[api.GetBillRequest, api.BillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		resetBill: connect.NewClient[api.ResetBillRequest, api.ResetBillResponse](httpClient, baseURL+BillServiceResetBillProcedure, opts...),
	}
}

// billServiceClient implements BillServiceClient.
type billServiceClient struct {
	startBill *connect.Client[api.StartBillRequest, api.StartBillResponse]
	scanBill *connect.Client[api.ScanBillRequest, api.ScanBillResponse]
	addItem *connect.Client[api.AddItemRequest, api.BillResponse]
	removeItem *connect.Client[api.RemoveItemRequest, api.BillResponse]
	cycleAssignment *connect.Client[api.CycleAssignmentRequest, api.BillResponse]
	setAssignment *connect.Client[api.SetAssignmentRequest, api.BillResponse]
	setTax *connect.Client[api.SetTaxRequest, api.BillResponse]
	setTip *connect.Client[api.SetTipRequest, api.BillResponse]
	setTotal *connect.Client[api.SetTotalRequest, api.BillResponse]
	setPeople *connect.Client[api.SetPeopleRequest, api.BillResponse]
	getBill *connect.Client[api.GetBillRequest, api.BillResponse]
	resetBill *connect.Client[api.ResetBillRequest, api.ResetBillResponse]
}

// StartBill calls duosplit.v1.BillService.StartBill.
func (c *billServiceClient) StartBill(ctx context.Context, req *connect.Request[api.StartBillRequest]) (*connect.Response[api.StartBillResponse], error) {
	return c.startBill.CallUnary(ctx, req)
}

// ScanBill calls duosplit.v1.BillService.ScanBill.
func (c *billServiceClient) ScanBill(ctx context.Context, req *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error) {
	return c.scanBill.CallUnary(ctx, req)
}

// AddItem calls duosplit.v1.BillService.AddItem.
func (c *billServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

// RemoveItem calls duosplit.v1.BillService.RemoveItem.
func (c *billServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

// CycleAssignment calls duosplit.v1.BillService.CycleAssignment.
func (c *billServiceClient) CycleAssignment(ctx context.Context, req *connect.Request[api.CycleAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	return c.cycleAssignment.CallUnary(ctx, req)
}

// SetAssignment calls duosplit.v1.BillService.SetAssignment.
func (c *billServiceClient) SetAssignment(ctx context.Context, req *connect.Request[api.SetAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	return c.setAssignment.CallUnary(ctx, req)
}

// SetTax calls duosplit.v1.BillService.SetTax.
func (c *billServiceClient) SetTax(ctx context.Context, req *connect.Request[api.SetTaxRequest]) (*connect.Response[api.BillResponse], error) {
	return c.setTax.CallUnary(ctx, req)
}

// SetTip calls duosplit.v1.BillService.SetTip.
func (c *billServiceClient) SetTip(ctx context.Context, req *connect.Request[api.SetTipRequest]) (*connect.Response[api.BillResponse], error) {
	return c.setTip.CallUnary(ctx, req)
}

// SetTotal calls duosplit.v1.BillService.SetTotal.
func (c *billServiceClient) SetTotal(ctx context.Context, req *connect.Request[api.SetTotalRequest]) (*connect.Response[api.BillResponse], error) {
	return c.setTotal.CallUnary(ctx, req)
}

// SetPeople calls duosplit.v1.BillService.SetPeople.
func (c *billServiceClient) SetPeople(ctx context.Context, req *connect.Request[api.SetPeopleRequest]) (*connect.Response[api.BillResponse], error) {
	return c.setPeople.CallUnary(ctx, req)
}

// GetBill calls duosplit.v1.BillService.GetBill.
func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

// ResetBill calls duosplit.v1.BillService.ResetBill.
func (c *billServiceClient) ResetBill(ctx context.Context, req *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error) {
	return c.resetBill.CallUnary(ctx, req)
}

// BillServiceHandler is an implementation of the duosplit.v1.BillService service.
type BillServiceHandler interface {
	StartBill(context.Context, *connect.Request[api.StartBillRequest]) (*connect.Response[api.StartBillResponse], error)
	ScanBill(context.Context, *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error)
	CycleAssignment(context.Context, *connect.Request[api.CycleAssignmentRequest]) (*connect.Response[api.BillResponse], error)
	SetAssignment(context.Context, *connect.Request[api.SetAssignmentRequest]) (*connect.Response[api.BillResponse], error)
	SetTax(context.Context, *connect.Request[api.SetTaxRequest]) (*connect.Response[api.BillResponse], error)
	SetTip(context.Context, *connect.Request[api.SetTipRequest]) (*connect.Response[api.BillResponse], error)
	SetTotal(context.Context, *connect.Request[api.SetTotalRequest]) (*connect.Response[api.BillResponse], error)
	SetPeople(context.Context, *connect.Request[api.SetPeopleRequest]) (*connect.Response[api.BillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillResponse], error)
	ResetBill(context.Context, *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation. It returns the
// path on which to mount the handler and the handler itself.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	billServiceStartBillHandler := connect.NewUnaryHandler(
		BillServiceStartBillProcedure,
		svc.StartBill,
		opts...,
	)
	billServiceScanBillHandler := connect.NewUnaryHandler(
		BillServiceScanBillProcedure,
		svc.ScanBill,
		opts...,
	)
	billServiceAddItemHandler := connect.NewUnaryHandler(
		BillServiceAddItemProcedure,
		svc.AddItem,
		opts...,
	)
	billServiceRemoveItemHandler := connect.NewUnaryHandler(
		BillServiceRemoveItemProcedure,
		svc.RemoveItem,
		opts...,
	)
	billServiceCycleAssignmentHandler := connect.NewUnaryHandler(
		BillServiceCycleAssignmentProcedure,
		svc.CycleAssignment,
		opts...,
	)
	billServiceSetAssignmentHandler := connect.NewUnaryHandler(
		BillServiceSetAssignmentProcedure,
		svc.SetAssignment,
		opts...,
	)
	billServiceSetTaxHandler := connect.NewUnaryHandler(
		BillServiceSetTaxProcedure,
		svc.SetTax,
		opts...,
	)
	billServiceSetTipHandler := connect.NewUnaryHandler(
		BillServiceSetTipProcedure,
		svc.SetTip,
		opts...,
	)
	billServiceSetTotalHandler := connect.NewUnaryHandler(
		BillServiceSetTotalProcedure,
		svc.SetTotal,
		opts...,
	)
	billServiceSetPeopleHandler := connect.NewUnaryHandler(
		BillServiceSetPeopleProcedure,
		svc.SetPeople,
		opts...,
	)
	billServiceGetBillHandler := connect.NewUnaryHandler(
		BillServiceGetBillProcedure,
		svc.GetBill,
		opts...,
	)
	billServiceResetBillHandler := connect.NewUnaryHandler(
		BillServiceResetBillProcedure,
		svc.ResetBill,
		opts...,
	)
	return "/duosplit.v1.BillService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceStartBillProcedure:
			billServiceStartBillHandler.ServeHTTP(w, r)
		case BillServiceScanBillProcedure:
			billServiceScanBillHandler.ServeHTTP(w, r)
		case BillServiceAddItemProcedure:
			billServiceAddItemHandler.ServeHTTP(w, r)
		case BillServiceRemoveItemProcedure:
			billServiceRemoveItemHandler.ServeHTTP(w, r)
		case BillServiceCycleAssignmentProcedure:
			billServiceCycleAssignmentHandler.ServeHTTP(w, r)
		case BillServiceSetAssignmentProcedure:
			billServiceSetAssignmentHandler.ServeHTTP(w, r)
		case BillServiceSetTaxProcedure:
			billServiceSetTaxHandler.ServeHTTP(w, r)
		case BillServiceSetTipProcedure:
			billServiceSetTipHandler.ServeHTTP(w, r)
		case BillServiceSetTotalProcedure:
			billServiceSetTotalHandler.ServeHTTP(w, r)
		case BillServiceSetPeopleProcedure:
			billServiceSetPeopleHandler.ServeHTTP(w, r)
		case BillServiceGetBillProcedure:
			billServiceGetBillHandler.ServeHTTP(w, r)
		case BillServiceResetBillProcedure:
			billServiceResetBillHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBillServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillServiceHandler struct{}

func (UnimplementedBillServiceHandler) StartBill(context.Context, *connect.Request[api.StartBillRequest]) (*connect.Response[api.StartBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.StartBill is not implemented"))
}

func (UnimplementedBillServiceHandler) ScanBill(context.Context, *connect.Request[api.ScanBillRequest]) (*connect.Response[api.ScanBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.ScanBill is not implemented"))
}

func (UnimplementedBillServiceHandler) AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.AddItem is not implemented"))
}

func (UnimplementedBillServiceHandler) RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.RemoveItem is not implemented"))
}

func (UnimplementedBillServiceHandler) CycleAssignment(context.Context, *connect.Request[api.CycleAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.CycleAssignment is not implemented"))
}

func (UnimplementedBillServiceHandler) SetAssignment(context.Context, *connect.Request[api.SetAssignmentRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.SetAssignment is not implemented"))
}

func (UnimplementedBillServiceHandler) SetTax(context.Context, *connect.Request[api.SetTaxRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.SetTax is not implemented"))
}

func (UnimplementedBillServiceHandler) SetTip(context.Context, *connect.Request[api.SetTipRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.SetTip is not implemented"))
}

func (UnimplementedBillServiceHandler) SetTotal(context.Context, *connect.Request[api.SetTotalRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.SetTotal is not implemented"))
}

func (UnimplementedBillServiceHandler) SetPeople(context.Context, *connect.Request[api.SetPeopleRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.SetPeople is not implemented"))
}

func (UnimplementedBillServiceHandler) GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.BillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.GetBill is not implemented"))
}

func (UnimplementedBillServiceHandler) ResetBill(context.Context, *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("duosplit.v1.BillService.ResetBill is not implemented"))
}
