// Package domain contains the core business entities of the trainer: decks,
// multi-sided cards and the answer events recorded while studying them.
// It is independent of storage, sampling and presentation concerns.
package domain
