// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package segment

import (
	"math"
	"math/rand"
)

// kmeansResult is the outcome of one Lloyd run.
type kmeansResult struct {
	centroids [][]float64
	labels    []int
	inertia   float64
	iters     int
}

// kmeans runs nInit seeded k-means++ initializations and keeps the lowest
// inertia result.
func kmeans(points [][]float64, k, maxIter, nInit int, tol float64, rng *rand.Rand) kmeansResult {
	var best kmeansResult
	for run := 0; run < nInit; run++ {
		res := lloyd(points, initPlusPlus(points, k, rng), maxIter, tol)
		if run == 0 || res.inertia < best.inertia {
			best = res
		}
	}
	return best
}

// initPlusPlus picks k starting centroids with k-means++ seeding: the first
// uniformly, each next one with probability proportional to its squared
// distance from the nearest centroid already chosen.
func initPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if dd := sqDist(p, c); dd < d {
					d = dd
				}
			}
			dist[i] = d
			total += d
		}

		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			var acc float64
			for i, d := range dist {
				acc += d
				if acc >= target {
					next = i
					break
				}
			}
		}
		centroids = append(centroids, clone(points[next]))
	}
	return centroids
}

// lloyd alternates assignment and update until labels stop changing, the
// centroid shift drops under tol, or maxIter is reached.
func lloyd(points [][]float64, centroids [][]float64, maxIter int, tol float64) kmeansResult {
	k := len(centroids)
	dim := len(points[0])
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	iters := 0
	for iters < maxIter {
		iters++
		changed := false
		for i, p := range points {
			c, _ := nearest(p, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := labels[i]
			counts[c]++
			for j, v := range p {
				sums[c][j] += v
			}
		}

		var shift float64
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Re-seed an empty cluster with the point farthest from its centroid.
				far := farthest(points, labels, centroids)
				shift += sqDist(centroids[c], points[far])
				centroids[c] = clone(points[far])
				labels[far] = c
				changed = true
				continue
			}
			next := make([]float64, dim)
			for j := range next {
				next[j] = sums[c][j] / float64(counts[c])
			}
			shift += sqDist(centroids[c], next)
			centroids[c] = next
		}

		if !changed || shift <= tol {
			break
		}
	}

	// Final assignment against the settled centroids.
	var inertia float64
	for i, p := range points {
		c, d := nearest(p, centroids)
		labels[i] = c
		inertia += d
	}

	return kmeansResult{centroids: centroids, labels: labels, inertia: inertia, iters: iters}
}

// nearest returns the index of the closest centroid and its squared distance.
// Ties go to the lower index.
func nearest(p []float64, centroids [][]float64) (int, float64) {
	best, bestD := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestD {
			best, bestD = c, d
		}
	}
	return best, bestD
}

// farthest returns the point with the largest distance to its assigned centroid.
func farthest(points [][]float64, labels []int, centroids [][]float64) int {
	idx, maxD := 0, -1.0
	for i, p := range points {
		c := labels[i]
		if c < 0 {
			c = 0
		}
		if d := sqDist(p, centroids[c]); d > maxD {
			idx, maxD = i, d
		}
	}
	return idx
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
