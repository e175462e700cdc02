// Package prop implements the prop-type system: the tagged-variant configs
// that define what values are legal at each position of a property tree, how
// raw data is sanitized into them, and how two values interpolate over time.
//
// CONFIGS AS A SUM TYPE:
//
// Config is a sealed interface. Only Number, Str, Bool, StringLiteral, RGBA,
// Image, File, Compound, and Enum implement it. Per-variant behavior
// (DefaultOf, Sanitize, Interpolate) dispatches through exhaustive type
// switches, never through embedded virtual methods, so adding a variant
// forces every operation to account for it.
//
// VALIDATION BOUNDARY:
//
// Config construction is the validation boundary. Constructors fail fast on
// malformed configs (non-finite number defaults, a string-literal default
// missing from its value set, an enum default case that does not exist).
// Post-construction, Sanitize degrades gracefully: a value that does not fit
// yields a miss ("use the default"), never an error. Sanitizing a value
// already produced by the same config is idempotent.
//
// INTERPOLATION:
//
// Interpolate never clamps t. Values of t outside [0,1] produce linear
// overshoot for numeric types; this is a contractual feature relied on by
// bezier easing curves whose y range exceeds [0,1]. Non-interpolable leaf
// types hold the left value for the whole segment.
package prop
