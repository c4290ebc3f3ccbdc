// Package assistant implements the AI chat features: a general assistant
// conversation and a document-grounded chat. Both persist their transcripts
// in the store so conversations survive restarts. The model provider is
// abstracted behind Completer; production uses GroqClient.
package assistant
