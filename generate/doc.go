// Package generate provides terrain.Source implementations used to
// initialize a density field: an analytic sphere, layered-noise ground and
// an adapter for sdfx solids.
package generate
