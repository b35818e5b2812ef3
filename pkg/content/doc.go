// Package content loads the static copy of the school website: navigation,
// footer, page sections and inline SVG icons. Prose fields are written in
// Markdown and rendered to sanitised HTML at load time; icons pass through a
// restrictive SVG allow-list. A Store keeps the current site behind a lock so
// the Watcher can swap in edits without restarting the server.
package content
