// Package terrain implements an editable volumetric terrain: a scalar
// density field sampled on a regular lattice, procedural generation through
// [Source] values and local sculpting with a spherical [Brush].
//
// Samples with a value below the iso level are solid. Generators in the
// generate package and the brush follow this convention. The render package
// turns a [Field] into triangles with marching cubes.
package terrain
