// Package analysis post-processes recorded runs.
//
// The package works on the rows stored by the storage package:
//
//   - [Track]: the path of one body, interpolated exactly between events
//   - [MSD]: mean squared displacement from the first recorded position
//   - [LinearFit] and [Diffusion]: least-squares slope and D = slope/2
//   - [MeanPressure] and [WallPressure]: time-averaged pressure per surface
//   - [PathToASCII]: a terminal scatter of a trajectory
//
// # Diffusion
//
// The obstacle of a run with a movable centre disk performs a random walk:
//
//	track := analysis.Track(rows, 0)
//	points := analysis.MSD(track, 0.1)
//	d, fit, err := analysis.Diffusion(points)
package analysis
