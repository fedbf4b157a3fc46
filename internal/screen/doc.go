// Package screen contains the single Fyne player screen: a play/pause
// toggle, an elapsed-time label and a position slider wired to a playback
// controller. All widget state is mutated on the Fyne UI goroutine.
package screen
