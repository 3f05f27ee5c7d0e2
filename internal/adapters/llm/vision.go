package llm

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"adwarden/internal/core/markup"
	"adwarden/internal/core/prompt"
	"adwarden/internal/platform/logger"
)

// VisionResult is what a vision model saw in one image. RecognizedText is nil
// when OCR failed or was skipped
type VisionResult struct {
	URL            string  `json:"url"`
	RecognizedText *string `json:"recognizedText,omitempty"`
	HasQRCode      bool    `json:"hasQRCode"`
	QRContent      string  `json:"qrContent,omitempty"`
}

// Vision reads text and QR codes out of images
type Vision struct {
	opt VisionOptions
	c   *completer
	log *logger.Logger
}

// NewVision builds a Vision client
func NewVision(opt VisionOptions) *Vision {
	opt = opt.withDefaults()
	return &Vision{
		opt: opt,
		c:   newCompleter("vision", opt.Endpoint, opt.Keys, opt.Timeout, opt.RetryCount, opt.RetryDelay, rotateOnOutcome, opt.Log),
		log: opt.Log,
	}
}

// Enabled reports whether image recognition is switched on
func (v *Vision) Enabled() bool { return v != nil && v.opt.Enabled }

// Options returns the effective settings
func (v *Vision) Options() VisionOptions { return v.opt }

// ExtractImageURLs lists the images of content worth recognising, dropping
// stickers when skipEmoji is set
func ExtractImageURLs(content string, skipEmoji bool) []string {
	var out []string
	for _, img := range markup.Images(content) {
		if skipEmoji && img.Emoji {
			continue
		}
		out = append(out, img.URL)
	}
	return out
}

// Recognize runs the QR sub-query then OCR. Model failures are logged and
// reflected in the result; only context cancellation is returned as an error
func (v *Vision) Recognize(ctx context.Context, imageURL string) (*VisionResult, error) {
	res := &VisionResult{URL: imageURL}

	if v.opt.QRDetection {
		reply, err := v.ask(ctx, prompt.QRPrompt, imageURL, 500)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			v.log.Warn().Err(err).Str("url", imageURL).Msg("qr detection failed")
		case prompt.HasQRCode(reply):
			res.HasQRCode = true
			res.QRContent = strings.TrimSpace(reply)
		}
		if res.HasQRCode && v.opt.SkipOCROnQR {
			v.log.Info().Str("url", imageURL).Msg("qr code found, skipping text recognition")
			return res, nil
		}
	}

	reply, err := v.ask(ctx, prompt.OCRPrompt, imageURL, 1000)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		v.log.Warn().Err(err).Str("url", imageURL).Msg("text recognition failed")
		return res, nil
	}
	text := strings.TrimSpace(reply)
	res.RecognizedText = &text
	return res, nil
}

// RecognizeAll recognises images concurrently, preserving input order
func (v *Vision) RecognizeAll(ctx context.Context, urls []string) ([]*VisionResult, error) {
	out := make([]*VisionResult, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opt.MaxConcurrent)
	for i, u := range urls {
		g.Go(func() error {
			r, err := v.Recognize(gctx, u)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Vision) ask(ctx context.Context, text, imageURL string, maxTokens int) (string, error) {
	return v.c.complete(ctx, chatRequest{
		Model:       v.opt.Model,
		Messages:    []chatMessage{imageTurn(text, imageURL)},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	})
}
