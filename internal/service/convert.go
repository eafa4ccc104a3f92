package service

import (
	"fmt"
	"image"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/duosplit/internal/calculator"
	"github.com/mmynk/duosplit/internal/extract"
	"github.com/mmynk/duosplit/internal/imageproc"
	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
	"github.com/mmynk/duosplit/internal/session"
	"github.com/mmynk/duosplit/pkg/api"
)

// toAPIBill converts a session summary to its wire form.
func toAPIBill(s session.Summary) *api.Bill {
	b := s.Bill
	items := make([]*api.Item, 0, len(b.Items))
	for _, it := range b.Items {
		item := &api.Item{
			Id:         it.ID,
			Amount:     it.Amount.String(),
			Assignment: it.Assignment.String(),
			Origin:     it.Origin.String(),
		}
		if r := it.SourceRegion; r != nil {
			item.Region = &api.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		}
		items = append(items, item)
	}

	out := &api.Bill{
		Id:          b.ID,
		Generation:  b.Generation,
		PersonA:     b.Labels.A,
		PersonB:     b.Labels.B,
		Items:       items,
		TotalSource: b.TotalSource.String(),
		Tax:         toAPITax(s.Tax),
		TipPercent:  b.TipPercent.String(),
		HasImage:    b.HasImage,
		Scanning:    b.Scanning,
		Totals:      toAPITotals(s.Display),
	}
	if b.DeclaredTotal > 0 {
		out.DeclaredTotal = b.DeclaredTotal.String()
	}
	if ls := b.LastScan; ls != nil {
		out.LastScan = &api.ScanSummary{
			Strategy:     ls.Strategy,
			Engine:       ls.Engine,
			Found:        ls.Found,
			NoCandidates: ls.NoCandidates,
		}
	}
	return out
}

func toAPITax(t calculator.Tax) *api.Tax {
	out := &api.Tax{
		Amount:    t.Amount.String(),
		Source:    t.Source.String(),
		Estimated: t.Estimated(),
	}
	if t.Source == calculator.TaxFromRate || t.Source == calculator.TaxEstimated {
		out.Rate = t.Rate.String()
	}
	return out
}

func toAPITotals(d calculator.Display) *api.Totals {
	return &api.Totals{
		PersonASubtotal: d.PersonASubtotal.String(),
		PersonBSubtotal: d.PersonBSubtotal.String(),
		SharedSubtotal:  d.SharedSubtotal.String(),
		GrandSubtotal:   d.GrandSubtotal.String(),
		TaxAmount:       d.TaxAmount.String(),
		PersonATax:      d.PersonATax.String(),
		PersonBTax:      d.PersonBTax.String(),
		UnallocatedTax:  d.UnallocatedTax.String(),
		TipPercent:      d.TipPercent.String(),
		TipAmount:       d.TipAmount.String(),
		PersonATip:      d.PersonATip.String(),
		PersonBTip:      d.PersonBTip.String(),
		PersonAFinal:    d.PersonAFinal.String(),
		PersonBFinal:    d.PersonBFinal.String(),
		GrandTotal:      d.GrandTotal.String(),
	}
}

// parseTax reads a SetTaxRequest into a tax setting.
func parseTax(req *api.SetTaxRequest) (calculator.Tax, error) {
	switch strings.ToLower(strings.TrimSpace(req.Source)) {
	case "", "none":
		return calculator.Tax{Source: calculator.TaxNone}, nil
	case "declared", "amount":
		a, err := money.Parse(req.Amount)
		if err != nil {
			return calculator.Tax{}, fmt.Errorf("%w: tax amount: %v", session.ErrInvalidManualEntry, err)
		}
		return calculator.DeclaredTax(a), nil
	case "rate":
		r, err := parsePercent(req.Rate)
		if err != nil {
			return calculator.Tax{}, fmt.Errorf("tax rate: %w", err)
		}
		return calculator.Tax{Source: calculator.TaxFromRate, Rate: r}, nil
	case "inferred":
		return calculator.Tax{Source: calculator.TaxInferred}, nil
	case "estimated":
		return calculator.Tax{Source: calculator.TaxEstimated}, nil
	default:
		return calculator.Tax{}, fmt.Errorf("%w: unknown tax source %q", session.ErrInvalidManualEntry, req.Source)
	}
}

func parsePercent(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", session.ErrInvalidManualEntry, s)
	}
	return d, nil
}

// toStrategy builds the capture strategy named in a scan request. The
// native image size is filled in by the strategy when it runs.
func toStrategy(req *api.ScanBillRequest, pointW, pointH int) (extract.Strategy, error) {
	var vp imageproc.Viewport
	if v := req.Viewport; v != nil {
		vp = imageproc.Viewport{DisplayWidth: v.DisplayWidth, DisplayHeight: v.DisplayHeight}
	}

	switch req.Strategy {
	case "", api.StrategyWholeImage:
		return extract.WholeImage{}, nil
	case api.StrategyRegionSelect:
		regions := make([]image.Rectangle, 0, len(req.Regions))
		for _, r := range req.Regions {
			if r == nil {
				continue
			}
			regions = append(regions, image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
		}
		return extract.RegionSelect{Regions: regions, Viewport: vp}, nil
	case api.StrategyPointSample:
		points := make([]image.Point, 0, len(req.Points))
		for _, p := range req.Points {
			if p == nil {
				continue
			}
			points = append(points, image.Pt(p.X, p.Y))
		}
		return extract.PointSample{Points: points, Viewport: vp, Width: pointW, Height: pointH}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", req.Strategy)
	}
}

func parseAssignment(s string) (models.Assignment, error) {
	a, err := models.ParseAssignment(s)
	if err != nil {
		return models.Shared, fmt.Errorf("%w: %v", session.ErrInvalidManualEntry, err)
	}
	return a, nil
}
