// Package display keeps automated UI tests off the operator's screen.
//
// One controller variant exists per platform family, selected once from the
// host target. Every variant honors the same contract: Setup always returns
// a usable session (fallback tiers degrade silently, the worst case being a
// plain passthrough), and Teardown is idempotent and swallows its own
// errors. Short-lived helper processes used for probing are bounded by hard
// timeouts; a probe timing out is treated the same as the API being absent.
package display
