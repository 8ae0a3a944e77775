// Package psychro holds the psychrometric math behind the VPD calculator.
//
// Every function is pure and safe for concurrent use. Inputs are trusted:
// humidity outside [0, 100] is not clamped here and NaN propagates through
// every formula. Callers that accept user input clamp it first (see Domain).
package psychro
