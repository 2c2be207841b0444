/*
Package session serializes access to explorer sessions.

Manager decorates any ports.SessionStore so that operations on one session ID
run one at a time within the process, and, when a ports.Locker backed by Redis
is configured, across explorer replicas sharing the same store.

WithLock holds a session's lock across several calls. The explorer's HTTP
server wraps each request in it, so a request's load, changes and save are
never interleaved with another request carrying the same cookie.
*/
package session
