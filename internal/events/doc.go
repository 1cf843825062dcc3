// Package events provides a minimal in-memory publish/subscribe mechanism
// for session lifecycle events. The session engines emit events (word
// mastered, daily goal reached, session completed) without knowing who
// consumes them; the composition root registers handlers.
package events
