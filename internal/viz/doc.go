// Package viz renders computation results for the terminal.
//
//   - [Summary]: labeled result block styled with the current [Theme]
//   - [ConvergencePlot]: asciigraph line of log10 error per series term
//   - [Dartboard]: Braille [Canvas] of Monte Carlo samples and the unit circle
//   - [Progress]: pb progress bar fed as a series observer
package viz
