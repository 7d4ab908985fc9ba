// Package extraction calls the external language-understanding service
// that turns rendered email text into either a "not an event" sentinel
// or a JSON event candidate. The package only transports text; all
// validation of the response happens in the normalize package.
package extraction

import "context"

// Input is the email context handed to the extraction service.
type Input struct {
	Subject string
	Sender  string
	Snippet string
	Body    string
}

// Extractor is the contract of the extraction service: unstructured
// email text in, raw response text out.
type Extractor interface {
	Extract(ctx context.Context, in Input) (string, error)
}
