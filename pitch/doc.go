// Package pitch estimates the fundamental frequency of windowed frames from
// the peak of their real cepstrum.
package pitch
