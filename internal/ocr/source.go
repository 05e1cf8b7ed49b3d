// Package ocr produces raw text from scanned receipt images. It is the
// opaque text producer upstream of the extraction engine: implementations
// transcribe, they never interpret.
package ocr

// TextSource converts a receipt image into the raw text printed on it.
type TextSource interface {
	// RecognizeText transcribes all visible text, preserving line breaks.
	RecognizeText(imageData []byte, contentType string) (string, error)
	// Close releases any resources held by the source
	Close() error
}

// transcriptionPrompt is shared by all vision-model backends. The engine
// downstream depends on line structure, so the prompt insists on a
// verbatim transcription.
const transcriptionPrompt = `You are reading a scanned bank transfer receipt (comprobante de transferencia).

Transcribe ALL text visible in the image, exactly as printed:
- Preserve the original line breaks and the order lines appear in.
- Keep labels, amounts, account numbers, dates and names verbatim, including mask characters like "*".
- Do not translate, summarize, reorder or interpret anything.
- Do not add commentary, headers or markdown code blocks.

Return only the transcribed text.`
