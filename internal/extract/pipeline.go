package extract

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/duosplit/internal/imageproc"
	"github.com/mmynk/duosplit/internal/metrics"
	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/money"
	"github.com/mmynk/duosplit/internal/ocr"
	"github.com/mmynk/duosplit/internal/parser"
)

// ErrRecognition means no engine could read the image. The bill can still be
// entered by hand.
var ErrRecognition = errors.New("text recognition failed, enter prices manually")

// Config tunes a Pipeline.
type Config struct {
	// Primary engine. Required.
	Primary ocr.Recognizer
	// Fallback is tried once when Primary fails or finds nothing. Optional.
	Fallback ocr.Recognizer
	// Enhancer preprocesses every sample. Nil skips enhancement.
	Enhancer *imageproc.Enhancer
	// Options for the first pass. The retry pass adds NumericWhitelist.
	Options ocr.Options
	// MaxCandidates caps the candidates returned. Zero means no cap.
	MaxCandidates int
	// Deadline bounds each engine attempt. Zero means no deadline.
	Deadline time.Duration
	// Metrics may be nil.
	Metrics *metrics.Recorder
}

// Pipeline runs capture strategies against OCR engines. It holds no
// per-bill state and may be shared across sessions.
type Pipeline struct {
	cfg    Config
	parser *parser.Parser
}

// Extraction is the outcome of one successful run.
type Extraction struct {
	Items []models.CandidateItem
	// Total is the best-guess grand total, zero when none was found.
	Total money.Amount
	// Text is the merged recognized text, in job order.
	Text string
	// Engine names the engine whose output was parsed.
	Engine string
	// NoCandidates reports a successful recognition that yielded no prices.
	NoCandidates bool
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Primary == nil {
		return nil, fmt.Errorf("extract: primary recognizer is required")
	}
	return &Pipeline{
		cfg:    cfg,
		parser: parser.New(parser.Options{MaxCandidates: cfg.MaxCandidates}),
	}, nil
}

// HasFallback reports whether a fallback engine is configured.
func (p *Pipeline) HasFallback() bool { return p.cfg.Fallback != nil }

// RunBytes decodes data and runs the strategy over it.
func (p *Pipeline) RunBytes(ctx context.Context, data []byte, s Strategy) (Extraction, error) {
	img, err := imageproc.DecodeBytes(data)
	if err != nil {
		return Extraction{}, err
	}
	return p.Run(ctx, img, s)
}

// Run recognizes the parts of img chosen by s and parses candidate prices.
//
// Order of attempts: the primary engine; the primary again with a numeric
// whitelist if nothing was found; then the fallback once, either because the
// primary failed or because both primary passes found nothing. If every
// attempt errors, Run returns ErrRecognition. A run where recognition worked
// but no prices were found is not an error.
func (p *Pipeline) Run(ctx context.Context, img image.Image, s Strategy) (Extraction, error) {
	if img == nil {
		return Extraction{}, fmt.Errorf("%w: no image", imageproc.ErrDecode)
	}
	jobs, err := s.Jobs(img.Bounds())
	if err != nil {
		return Extraction{}, err
	}
	start := time.Now()

	samples, err := p.prepare(img, jobs)
	if err != nil {
		return Extraction{}, err
	}

	ex, primaryErr := p.attempt(ctx, p.cfg.Primary, samples, p.cfg.Options)
	if primaryErr == nil && len(ex.Items) == 0 {
		slog.Debug("No prices found, retrying with numeric whitelist", "strategy", s.Name())
		retry, err := p.attempt(ctx, p.cfg.Primary, samples, p.cfg.Options.Numeric())
		if err == nil && len(retry.Items) > 0 {
			if ex.Total > 0 {
				retry.Total = ex.Total
			}
			ex = retry
		}
	}
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}

	if primaryErr != nil || len(ex.Items) == 0 {
		if p.cfg.Fallback == nil {
			if primaryErr != nil {
				slog.Error("Recognition failed", "engine", p.cfg.Primary.Name(), "error", primaryErr)
				return Extraction{}, fmt.Errorf("%w: %v", ErrRecognition, primaryErr)
			}
		} else {
			reason := metrics.ReasonNoCandidates
			if primaryErr != nil {
				reason = metrics.ReasonEngineError
			}
			p.cfg.Metrics.Fallback(reason)
			slog.Info("Trying fallback engine", "engine", p.cfg.Fallback.Name(), "reason", reason)

			fb, fbErr := p.attempt(ctx, p.cfg.Fallback, samples, p.cfg.Options)
			switch {
			case ctx.Err() != nil:
				return Extraction{}, ctx.Err()
			case fbErr != nil && primaryErr != nil:
				slog.Error("Recognition failed", "primary_error", primaryErr, "fallback_error", fbErr)
				return Extraction{}, fmt.Errorf("%w: %v; fallback: %v", ErrRecognition, primaryErr, fbErr)
			case fbErr != nil:
				slog.Warn("Fallback engine failed, keeping empty primary result", "error", fbErr)
			case len(fb.Items) > 0 || primaryErr != nil:
				if fb.Total == 0 {
					fb.Total = ex.Total
				}
				ex = fb
			}
		}
	}

	ex.NoCandidates = len(ex.Items) == 0
	p.cfg.Metrics.Candidates(len(ex.Items))
	slog.Info("Extraction complete",
		"strategy", s.Name(),
		"engine", ex.Engine,
		"jobs", len(jobs),
		"candidates", len(ex.Items),
		"total", ex.Total.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ex, nil
}

// sample is a prepared job: the raster handed to the engine plus the
// transform back to source coordinates.
type sample struct {
	job    Job
	img    image.Image
	scaleX float64
	scaleY float64
}

func (p *Pipeline) prepare(img image.Image, jobs []Job) ([]sample, error) {
	samples := make([]sample, len(jobs))
	for i, job := range jobs {
		var src image.Image = img
		if job.Rect != img.Bounds() {
			cropped, err := imageproc.Sample(img, job.Rect)
			if err != nil {
				return nil, err
			}
			src = cropped
		}
		out := src
		if p.cfg.Enhancer != nil {
			enhanced, err := p.cfg.Enhancer.Enhance(src)
			if err != nil {
				return nil, err
			}
			out = enhanced
		}
		samples[i] = sample{
			job:    job,
			img:    out,
			scaleX: float64(src.Bounds().Dx()) / float64(out.Bounds().Dx()),
			scaleY: float64(src.Bounds().Dy()) / float64(out.Bounds().Dy()),
		}
	}
	return samples, nil
}

// attempt runs one engine over every sample concurrently and parses the
// merged output.
func (p *Pipeline) attempt(ctx context.Context, rec ocr.Recognizer, samples []sample, opts ocr.Options) (Extraction, error) {
	if p.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Deadline)
		defer cancel()
	}

	results := make([]ocr.Result, len(samples))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range samples {
		g.Go(func() error {
			start := time.Now()
			res, err := rec.Recognize(gctx, s.img, opts)
			outcome := metrics.OutcomeOK
			switch {
			case err != nil:
				outcome = metrics.OutcomeError
			case strings.TrimSpace(res.Text) == "":
				outcome = metrics.OutcomeEmpty
			}
			p.cfg.Metrics.ObserveRecognition(rec.Name(), outcome, time.Since(start))
			if err != nil {
				return fmt.Errorf("%s job %d: %w", rec.Name(), s.job.Index, err)
			}
			res.Words = toSource(res.Words, s)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Extraction{}, err
	}

	texts := make([]string, 0, len(results))
	var words []models.Word
	for _, r := range results {
		if t := strings.TrimSpace(r.Text); t != "" {
			texts = append(texts, t)
		}
		words = append(words, r.Words...)
	}
	text := strings.Join(texts, "\n")
	return Extraction{
		Items:  p.parser.Parse(text, words),
		Total:  parser.FindTotal(text),
		Text:   text,
		Engine: rec.Name(),
	}, nil
}

// toSource maps word boxes from an enhanced sample back to source pixels.
func toSource(words []models.Word, s sample) []models.Word {
	if len(words) == 0 {
		return words
	}
	if s.scaleX != 1 || s.scaleY != 1 {
		scaled := make([]models.Word, len(words))
		for i, w := range words {
			w.Box = models.Region{
				X:      int(math.Round(float64(w.Box.X) * s.scaleX)),
				Y:      int(math.Round(float64(w.Box.Y) * s.scaleY)),
				Width:  int(math.Round(float64(w.Box.Width) * s.scaleX)),
				Height: int(math.Round(float64(w.Box.Height) * s.scaleY)),
			}
			scaled[i] = w
		}
		words = scaled
	}
	return ocr.OffsetWords(words, s.job.Rect.Min.X, s.job.Rect.Min.Y)
}
