// Package symboldoc describes documentation symbols at progressive levels of
// detail. A lookup result can be returned as a one-line summary first and
// expanded to its targets or parsed signatures only when a caller asks.
//
// # Detail Levels
//
// Summary: name, label, overload count and a short summary line. No target
// list.
//
// Targets: everything in Summary plus the ordered target list.
//
// Full: everything in Targets plus one parsed Signature and one resolved URL
// per target.
//
// # Signatures
//
// ParseSignature splits a Doxygen display string such as
//
//	AWE::MediaItem::getMember(const std::string &str) const
//
// into its scope (AWE::MediaItem), member (getMember), parameter list and
// trailing qualifiers (const). Display strings without a parameter list,
// such as class entries, parse as a bare scope.
//
// # Error Handling
//
// Describe returns ErrInvalidDetail for an unknown DetailLevel and
// ErrInvalidBaseURL when the documentation root cannot be parsed.
package symboldoc
