package xai

// Image model ID constants for xAI Grok image generation models.
// Use these constants instead of raw strings to avoid typos and get IDE support.
// See https://docs.x.ai/docs for the full list.
const (
	// ModelGrok2Image — Grok 2 image generation model (latest alias)
	ModelGrok2Image = "grok-2-image"

	// ModelGrok2Image1212 — Grok 2 image generation model (dated release)
	ModelGrok2Image1212 = "grok-2-image-1212"

	// ModelGrokImagineImage — Grok Imagine standard image generation model
	ModelGrokImagineImage = "grok-imagine-image"

	// ModelGrokImagineImagePro — Grok Imagine Pro image generation model (higher quality)
	ModelGrokImagineImagePro = "grok-imagine-image-pro"
)
