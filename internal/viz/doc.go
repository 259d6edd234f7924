// Package viz renders a running event loop in the terminal.
//
// [Model] is a Bubble Tea program that executes a batch of events per frame
// and draws the box on a braille [Canvas]: moving disks filled, static
// obstacles outlined, and the path of one tracked body. A side panel shows
// simulated time, event count, kinetic energy drift and an asciigraph chart
// of the mean wall pressure per completed bin.
package viz
