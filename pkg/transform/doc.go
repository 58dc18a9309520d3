// Package transform applies the post-sampling steps (closing, mirroring,
// scaling, rotation and recentring) to a point list.
//
// The individual step functions modify their argument in place; Apply works
// on a copy.
package transform
