/*
Package ports defines the driven ports (interfaces) used by the errand toolkit.

Each errand talks to exactly one provider through one of these interfaces, so
the CLI, the MCP server and the tests can swap real adapters for fakes.

# Key Interfaces

  - Mailer: Delivers an Email (Gmail SMTP, Mailjet).
  - Messenger, Caller: Send text messages and place voice calls (Twilio).
  - MemoryReader: Reads virtual memory statistics (gopsutil).
  - Searcher: Runs a web search and returns result URLs.
  - FaceDetector: Finds face bounding boxes in an image.
  - SessionStore: Persists explorer sessions (memory, JSON files, Redis).
  - Locker: Serializes mutating explorer operations on a path.
  - Journal: Records errand runs (SQLite).
*/
package ports
