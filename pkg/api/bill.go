// Package api defines the request and response messages of duosplit.v1.BillService.
// Money travels as decimal strings with two fractional digits ("12.10").
package api

// Strategy names accepted by ScanBillRequest.
const (
	StrategyWholeImage   = "whole_image"
	StrategyRegionSelect = "region_select"
	StrategyPointSample  = "point_sample"
)

type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Viewport is the size the image was displayed at when the user picked
// regions or points. Omit it when coordinates are already native pixels.
type Viewport struct {
	DisplayWidth  int `json:"displayWidth"`
	DisplayHeight int `json:"displayHeight"`
}

type Item struct {
	Id         string `json:"id"`
	Amount     string `json:"amount"`
	Assignment string `json:"assignment"`
	Origin     string `json:"origin"`
	Region     *Rect  `json:"region,omitempty"`
}

type Tax struct {
	Amount string `json:"amount"`
	Source string `json:"source"`
	Rate   string `json:"rate,omitempty"`
	// Estimated is true for the flat-rate guess, which must be shown as such.
	Estimated bool `json:"estimated"`
}

type Totals struct {
	PersonASubtotal string `json:"personASubtotal"`
	PersonBSubtotal string `json:"personBSubtotal"`
	SharedSubtotal  string `json:"sharedSubtotal"`
	GrandSubtotal   string `json:"grandSubtotal"`
	TaxAmount       string `json:"taxAmount"`
	PersonATax      string `json:"personATax"`
	PersonBTax      string `json:"personBTax"`
	UnallocatedTax  string `json:"unallocatedTax"`
	TipPercent      string `json:"tipPercent"`
	TipAmount       string `json:"tipAmount"`
	PersonATip      string `json:"personATip"`
	PersonBTip      string `json:"personBTip"`
	PersonAFinal    string `json:"personAFinal"`
	PersonBFinal    string `json:"personBFinal"`
	GrandTotal      string `json:"grandTotal"`
}

type ScanSummary struct {
	Strategy     string `json:"strategy"`
	Engine       string `json:"engine"`
	Found        int    `json:"found"`
	NoCandidates bool   `json:"noCandidates"`
}

type Bill struct {
	Id            string       `json:"id"`
	Generation    uint64       `json:"generation"`
	PersonA       string       `json:"personA"`
	PersonB       string       `json:"personB"`
	Items         []*Item      `json:"items"`
	DeclaredTotal string       `json:"declaredTotal,omitempty"`
	TotalSource   string       `json:"totalSource"`
	Tax           *Tax         `json:"tax"`
	TipPercent    string       `json:"tipPercent"`
	HasImage      bool         `json:"hasImage"`
	Scanning      bool         `json:"scanning"`
	LastScan      *ScanSummary `json:"lastScan,omitempty"`
	Totals        *Totals      `json:"totals"`
}

// BillResponse is returned by every RPC that changes or reads the bill.
type BillResponse struct {
	Bill *Bill `json:"bill"`
}

type StartBillRequest struct {
	PersonA string `json:"personA"`
	PersonB string `json:"personB"`
}

// StartBillResponse carries the session token for all later calls.
type StartBillResponse struct {
	Token string `json:"token"`
	Bill  *Bill  `json:"bill"`
}

type ScanBillRequest struct {
	// Image is the encoded photo. Empty rescans the previous image.
	Image    []byte    `json:"image,omitempty"`
	Strategy string    `json:"strategy"`
	Regions  []*Rect   `json:"regions,omitempty"`
	Points   []*Point  `json:"points,omitempty"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

type ScanBillResponse struct {
	Bill *Bill `json:"bill"`
	// Found is the number of candidates from this scan.
	Found        int    `json:"found"`
	NoCandidates bool   `json:"noCandidates"`
	Engine       string `json:"engine"`
	// DetectedTotal is the total read from the image, if any.
	DetectedTotal string `json:"detectedTotal,omitempty"`
}

type AddItemRequest struct {
	Amount     string `json:"amount"`
	Assignment string `json:"assignment,omitempty"`
}

type RemoveItemRequest struct {
	ItemId string `json:"itemId"`
}

type CycleAssignmentRequest struct {
	ItemId string `json:"itemId"`
}

type SetAssignmentRequest struct {
	ItemId     string `json:"itemId"`
	Assignment string `json:"assignment"`
}

// SetTaxRequest selects a tax strategy: none, declared (Amount), rate (Rate
// percent), inferred (declared total minus subtotal) or estimated.
type SetTaxRequest struct {
	Source string `json:"source"`
	Amount string `json:"amount,omitempty"`
	Rate   string `json:"rate,omitempty"`
}

type SetTipRequest struct {
	Percent string `json:"percent"`
}

// SetTotalRequest records the printed total. Empty clears it.
type SetTotalRequest struct {
	Amount string `json:"amount"`
}

type SetPeopleRequest struct {
	PersonA string `json:"personA"`
	PersonB string `json:"personB"`
}

type GetBillRequest struct{}

type ResetBillRequest struct{}

// ResetBillResponse carries a token for the new generation.
type ResetBillResponse struct {
	Token string `json:"token"`
	Bill  *Bill  `json:"bill"`
}
