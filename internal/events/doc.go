// Package events provides types and interfaces for in-process notifications.
//
// Recording an answer emits an AnswerRecordedEvent; the study layer subscribes
// to it to rescore the answered card. Dispatch is synchronous, so the emitter
// returns only after the rescoring is complete and the next question sees the
// fresh score.
//
// The primary components are:
//   - AnswerRecordedEvent: announces a stored answer
//   - EventHandler: interface for components that can handle events
//   - EventEmitter: interface for components that can emit events
package events
