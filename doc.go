/*
Package errand bundles small single-purpose automations ("errands") behind one
command line: drawing a picture, sending mail through SMTP or Mailjet, sending
Twilio SMS, voice calls and WhatsApp messages, reporting memory usage, running a
web search, downloading a file, swapping faces between two photos and serving a
browser-based file explorer.

# Layout

The module follows a hexagonal layout:

  - pkg/domain holds the data types and sentinel errors shared by every errand.
  - pkg/ports declares the capabilities an errand needs (Mailer, Messenger,
    SessionStore, Journal, Locker, ...).
  - pkg/adapters implements those ports on top of SMTP, Mailjet, Twilio,
    gopsutil, Redis, SQLite and HTTP.
  - pkg/explorer, pkg/faceswap, pkg/artwork and pkg/download hold the errands
    that are mostly local computation; pkg/session guards explorer sessions.
  - cmd/errand wires everything into a cobra CLI.

# Usage

	errand ram
	errand search "golang generics" --limit 5
	errand mail smtp --to friend@example.com --subject "Hi" --body "Hello"
	errand explorer --root ~/share --port 8501

With --journal (or journal.path in errand.yaml) every run is recorded in a
SQLite journal and can be listed with `errand history`.
*/
package errand
