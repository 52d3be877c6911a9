// Package auth provides request authentication for the hydrolog API.
//
// Authenticators vote with three outcomes: Yes (credentials valid, use the
// identity), No (credentials present and provably forged, reject the
// request), and Abstain (no usable credentials, continue as anonymous).
// The asymmetry is deliberate: a bad signature is evidence of tampering
// and is rejected loudly with a 401 before any handler runs, while an
// expired, malformed, or unresolvable token quietly degrades to the same
// anonymous state as presenting no token at all.
package auth
