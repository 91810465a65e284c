package groq

// Language model ID constants for Groq's hosted inference models.
// Use these constants instead of raw strings to avoid typos and get IDE support.
// See https://console.groq.com/docs/models for the full list.
const (
	// ModelLlama33_70BVersatile — Llama 3.3 70B, versatile general-purpose model
	ModelLlama33_70BVersatile = "llama-3.3-70b-versatile"

	// ModelLlama31_8BInstant — Llama 3.1 8B, low-latency model
	ModelLlama31_8BInstant = "llama-3.1-8b-instant"

	// ModelGPTOSS120B — GPT OSS 120B model, hosted on Groq's LPU inference engine
	ModelGPTOSS120B = "openai/gpt-oss-120b"

	// ModelGPTOSS20B — GPT OSS 20B model
	ModelGPTOSS20B = "openai/gpt-oss-20b"

	// ModelQwen3_32B — Qwen 3 32B model
	ModelQwen3_32B = "qwen/qwen3-32b"

	// ModelKimiK2Instruct — Kimi K2 instruction-tuned model
	ModelKimiK2Instruct = "moonshotai/kimi-k2-instruct"
)
