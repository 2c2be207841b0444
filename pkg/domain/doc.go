/*
Package domain contains the core models shared by the errand toolkit.

Every errand is a one-shot operation against a single provider or OS facility.
This package holds the small value types those operations exchange with their
adapters, plus the sentinel errors the CLI and HTTP layers translate for users.
It is kept free of I/O and third-party dependencies.

# Key Entities

  - Email, TextMessage, VoiceCall: Outbound requests for the mail and telephony adapters.
  - Receipt: What a provider returns after accepting a request.
  - MemoryStats: A snapshot of virtual memory, in bytes.
  - FileInfo, Session: The file explorer's directory entries and per-browser state.
  - Box: A face bounding box used by the face swapper.
  - Record, RunEvent: Journal entries and lifecycle events for errand runs.
*/
package domain
