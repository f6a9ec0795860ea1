// Package search implements a text input whose value is mirrored into a URL
// query parameter after a quiet period.
//
// The input keeps its own value. Keystrokes update it immediately and
// (re)start a debounce timer; when the timer fires, the current location is
// read and a single whole-URL navigation is requested:
//
//   - a non-empty value is merged into the query under the configured key
//     with every other parameter preserved;
//   - an empty value removes the key, but only on the route the input is
//     responsible for, so a search box shared between pages does not wipe
//     another page's query.
//
// Navigations never reset scroll and are skipped when the target URL equals
// the one already shown. Unmount cancels any pending timer.
package search
