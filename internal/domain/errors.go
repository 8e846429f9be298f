package domain

import "errors"

var (
	// ErrTableNotFound signals an operation against a table that does not exist.
	ErrTableNotFound = errors.New("table not found")
	// ErrTableAlreadyExists signals a duplicate table creation.
	ErrTableAlreadyExists = errors.New("table already exists")
	// ErrInvalidArgument signals a client-correctable parameter error.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrSpeechProviderError signals a TTS/transcription provider failure.
	ErrSpeechProviderError = errors.New("speech provider error")
	// ErrProviderNotConfigured signals a missing provider credential at startup.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrKeywordSearchNotSupported signals that the backend lacks keyword search.
	// Hybrid search absorbs it and degrades to vector-only; it never reaches
	// clients through the search path.
	ErrKeywordSearchNotSupported = errors.New("keyword search not supported by backend")
)
