// Package tags reconciles raw per-category tag names against the identity
// directory. Its central property is cross-category dedup: the same name
// appearing under different categories in one batch resolves to a single
// identity spanning all of them.
package tags
