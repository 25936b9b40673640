// Package jfa computes an approximate discrete 3D Voronoi tessellation of
// scattered seeds with the jump flooding algorithm and extracts two
// structures from the converged voxel field: boundary faces between
// differently owned voxels (approximate Voronoi cell surfaces) and the
// dual seed adjacency triangles (an approximate Delaunay structure).
//
// A run is a fixed sequence of data-parallel dispatches separated by full
// barriers: clear, seed initialization, ceil(log2 R) propagation rounds over
// a double buffered field, then the boundary and dual extraction passes
// which write fixed capacity append-only lists.
//
// The result is an approximation bounded by grid resolution. Meshes are
// neither watertight nor deduplicated.
package jfa
