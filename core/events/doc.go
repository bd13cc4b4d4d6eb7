// Package events defines the typed session-channel event contract.
//
// Event kinds are grouped by sender-facing namespaces:
//
//   - session.*    lifecycle and transport-level conditions
//   - interview.*  turn-level signals pushed by the interview service
//
// Semantics used across the package:
//
//   - Fragment: streamed transcription piece; partial fragments are
//     display-only overlays superseded by the next fragment, final
//     fragments replace the authoritative transcript.
//   - AutoSubmit: server-side silence detection finalized the answer on
//     the client's behalf.
//
// session events
//
//   - SessionConnected (session.connected): the push channel is open and
//     keyed to a session.
//   - SessionError (session.error): a service- or transport-level error
//     was pushed; the message is user-facing.
//
// interview events
//
//   - TranscriptFragment (interview.transcript_fragment): streamed
//     transcription of the in-progress answer.
//   - Reaction (interview.reaction): the interviewer's spoken reaction to
//     a submitted answer.
//   - AutoSubmit (interview.auto_submit): the service detected sustained
//     silence and finalized the current answer.
package events
