package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/types"
)

// ImageRenderer asks the image service for a URL for every non-icon planned image.
type ImageRenderer struct {
	images  ai.ImageGenerator
	size    string
	quality string
	timeout time.Duration
	limit   int
}

func NewImageRenderer(g ai.ImageGenerator, size, quality string, timeout time.Duration, concurrency int) *ImageRenderer {
	return &ImageRenderer{images: g, size: size, quality: quality, timeout: timeout, limit: concurrency}
}

// Render returns a copy of images with URLs filled in where rendering succeeded. A failed
// render leaves that image without a URL; failures are joined into Outcome.Err.
func (r *ImageRenderer) Render(ctx context.Context, images []types.PlannedImage) Outcome[[]types.PlannedImage] {
	out := make([]types.PlannedImage, len(images))
	copy(out, images)

	var idx []int
	for i, img := range out {
		if img.Purpose != types.PurposeIcon && img.URL == "" {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 || r.images == nil {
		return Outcome[[]types.PlannedImage]{Value: out, Source: types.SourceDeterministic}
	}

	results := RunUnits(ctx, r.limit, len(idx), func(ctx context.Context, n int) Result[string] {
		img := out[idx[n]]
		url, err := call(ctx, StageImageRender, r.timeout, func(ctx context.Context) (string, error) {
			url, err := r.images.GenerateImage(ctx, ai.ImageRequest{Prompt: img.Prompt, Size: r.size, Quality: r.quality})
			if err != nil {
				return "", err
			}
			if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
				return "", malformedf(StageImageRender, "image URL %q is not absolute", url)
			}
			return url, nil
		})
		if err != nil {
			return Err[string](&PartialSectionFailure{Stage: StageImageRender, SectionKey: img.SectionKey, Cause: err})
		}
		return Ok(url)
	})

	var errs []error
	for n, res := range results {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		out[idx[n]].URL = res.Value
	}
	return Outcome[[]types.PlannedImage]{
		Value:  out,
		Source: sourceOf(len(idx), len(errs)),
		Err:    errors.Join(errs...),
	}
}
