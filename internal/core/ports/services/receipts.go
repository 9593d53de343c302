package services

import "context"

// ReceiptStore uploads a receipt attachment and returns a retrievable URL.
// An empty URL with a nil error means attachments are disabled; the splitter
// also tolerates errors by creating the expense without a stored receipt.
type ReceiptStore interface {
	Store(ctx context.Context, name string, data []byte, mimeType string) (string, error)
}
