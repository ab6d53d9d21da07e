// Package generator relays design prompts to the Gemini API.
//
// The Client covers four calls: design briefs from a client message and its
// analysis, visual mockups from a brief, reference image analysis, and
// account checks (key validation, model listing). Each generation call uses
// its own model and sampling parameters from config.GeneratorConfig.
//
// # Retries
//
// Rate limits (429), server errors (5xx) and transport failures are retried
// with exponential backoff, starting at gemini.initial_backoff and doubling
// up to gemini.max_backoff, for at most gemini.max_retries attempts. Auth
// and request errors fail at once.
//
// # Errors
//
//   - *AuthError: the key was rejected
//   - *RateLimitError: retries exhausted on 429
//   - *APIError: any other API failure, with its status code
//   - *EmptyResponseError: the model returned no usable content
//
// # Batches
//
// BatchProcess runs briefs sequentially, spacing calls by
// generator.batch_delay with a token-bucket limiter.
package generator
