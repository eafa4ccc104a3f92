package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/duosplit/internal/app"
	"github.com/mmynk/duosplit/internal/config"
	"github.com/mmynk/duosplit/internal/extract"
)

const (
	maxImageSizeMB = 20
	maxImageSize   = maxImageSizeMB * 1024 * 1024
)

type scanOptions struct {
	regions  []string
	points   []string
	json     bool
	text     bool
	noCache  bool
	noRemote bool
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan IMAGE",
		Short: "Recognize candidate prices on a bill image",
		Long: `Runs OCR over IMAGE ('-' for stdin) and lists candidate prices.
Without --region or --point the whole image is scanned. Coordinates are
native image pixels.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return runScan(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], cfg, *opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.regions, "region", nil, "Region X,Y,W,H to scan (repeatable)")
	cmd.Flags().StringArrayVar(&opts.points, "point", nil, "Point X,Y to sample around (repeatable)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&opts.text, "text", false, "Also print the raw recognized text")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Bypass the OCR cache")
	cmd.Flags().BoolVar(&opts.noRemote, "no-remote", false, "Disable the remote fallback engine")
	return cmd
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q in %q", p, s)
		}
		out[i] = v
	}
	return out, nil
}

func parseRegion(s string) (image.Rectangle, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return image.Rectangle{}, err
	}
	if v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("region %q must have positive width and height", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

func parsePoint(s string) (image.Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(v[0], v[1]), nil
}

func (o scanOptions) strategy(cfg *config.Config) (extract.Strategy, error) {
	if len(o.regions) > 0 && len(o.points) > 0 {
		return nil, fmt.Errorf("--region and --point cannot be combined")
	}
	if len(o.regions) > 0 {
		s := extract.RegionSelect{}
		for _, r := range o.regions {
			rect, err := parseRegion(r)
			if err != nil {
				return nil, err
			}
			s.Regions = append(s.Regions, rect)
		}
		return s, nil
	}
	if len(o.points) > 0 {
		s := extract.PointSample{Width: cfg.PointWidth, Height: cfg.PointHeight}
		for _, p := range o.points {
			pt, err := parsePoint(p)
			if err != nil {
				return nil, err
			}
			s.Points = append(s.Points, pt)
		}
		return s, nil
	}
	return extract.WholeImage{}, nil
}

func readImage(stdin io.Reader, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxImageSize+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("input image is empty")
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("input image exceeds maximum size of %d MB", maxImageSizeMB)
	}
	return data, nil
}

type scanItem struct {
	Amount string `json:"amount"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
}

type scanResult struct {
	Source       string     `json:"source"`
	Strategy     string     `json:"strategy"`
	Engine       string     `json:"engine"`
	Items        []scanItem `json:"items"`
	Total        string     `json:"total,omitempty"`
	NoCandidates bool       `json:"no_candidates"`
	Text         string     `json:"text,omitempty"`
}

func runScan(ctx context.Context, stdin io.Reader, w io.Writer, path string, cfg *config.Config, opts scanOptions) error {
	strategy, err := opts.strategy(cfg)
	if err != nil {
		return err
	}
	data, err := readImage(stdin, path)
	if err != nil {
		return err
	}

	if opts.noCache {
		cfg.OCRCachePath = ""
	}
	if opts.noRemote {
		cfg.RemoteAPIKey = ""
	}
	stack, err := app.Build(cfg, nil)
	if err != nil {
		return err
	}
	defer stack.Close()

	ex, err := stack.Pipeline.RunBytes(ctx, data, strategy)
	if err != nil {
		return err
	}

	res := scanResult{
		Source:       path,
		Strategy:     strategy.Name(),
		Engine:       ex.Engine,
		Items:        make([]scanItem, 0, len(ex.Items)),
		NoCandidates: ex.NoCandidates,
	}
	for _, it := range ex.Items {
		si := scanItem{Amount: it.Amount.String()}
		if it.SourceRegion != nil {
			si.X, si.Y = it.SourceRegion.X, it.SourceRegion.Y
		}
		res.Items = append(res.Items, si)
	}
	if ex.Total > 0 {
		res.Total = ex.Total.String()
	}
	if opts.text {
		res.Text = ex.Text
	}
	return printScan(w, res, opts.json)
}

func printScan(w io.Writer, r scanResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	if r.NoCandidates {
		fmt.Fprintln(w, "No prices found. Try selecting regions or clicking on prices.")
	}
	for i, it := range r.Items {
		fmt.Fprintf(w, "%2d. %s\n", i+1, it.Amount)
	}
	if r.Total != "" {
		fmt.Fprintf(w, "Detected total: %s\n", r.Total)
	}
	fmt.Fprintf(w, "(%s via %s)\n", r.Strategy, r.Engine)
	if r.Text != "" {
		fmt.Fprintf(w, "\n%s\n", r.Text)
	}
	return nil
}
