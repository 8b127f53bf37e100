// Package subtitle detects legacy karaoke subtitle dialects (Toyunda,
// UltraStar, KaraFun) and converts them to the native ASS format.
package subtitle
