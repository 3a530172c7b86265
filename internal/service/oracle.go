package service

import "context"

// Completer is the completion oracle: an opaque text/vision generation
// service. Given an instruction (and optionally one image) it returns
// free-form text which may or may not be valid JSON; ParseExtraction is the
// only place that decides. Implemented by LLMService in production and by
// fakes in tests.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteImage(ctx context.Context, prompt string, image []byte, fileName string) (string, error)
}
