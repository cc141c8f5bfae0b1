// Package document holds the per-identity in-memory record and its typed
// accessor layer.
//
// Accessors return a value plus an explicit decode-failure condition instead
// of silently miscasting. Numeric accessors decode to a generic number first
// and narrow per the requested type, so fractional values truncate toward
// zero when read as integers.
//
// While an identity is online its document is owned by the lifecycle cache;
// offline documents obtained on demand must be released back through the
// lifecycle manager or their changes are lost.
package document
