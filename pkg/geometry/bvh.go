package geometry

import (
	"sort"

	"github.com/sdao/gammaray/pkg/math"
)

// The BVH build follows the surface-area-heuristic builder from PBRT 3rd
// edition, section 4.3: primitives are partitioned into SAH buckets along the
// longest centroid axis, and the finished tree is flattened into a contiguous
// node array addressed by integer index. Children are reachable by index
// arithmetic, so traversal is cache friendly and concurrent reads need no
// synchronization.

const (
	numSAHBuckets   = 12
	maxPrimsPerLeaf = 255
	sahLeafMinPrims = 4
)

type bvhPrimInfo struct {
	index    int // position in the original primitive slice
	bounds   AABB
	centroid math.Vec3
}

// buildNode is the temporary pointer-free tree used during construction
type buildNode struct {
	bounds    AABB
	children  [2]int
	axis      int
	firstPrim int
	numPrims  int
}

// linearNode is the flattened traversal representation. Interior nodes store
// the index of their second child; the first child is always the next node in
// depth-first order.
type linearNode struct {
	bounds   AABB
	offset   int // primitive offset for leaves, second-child index for interiors
	numPrims int // 0 for interior nodes
	axis     int // split axis for interior nodes
}

// BVH is an immutable bounding-volume hierarchy over a set of primitives.
// It is built once and never mutated during traversal.
type BVH struct {
	Primitives []Primitive // reordered so each leaf covers a contiguous range

	// Center and Radius of the scene bounds, used by infinite lights
	Center math.Vec3
	Radius float64

	nodes []linearNode
}

// NewBVH constructs a BVH from a slice of primitives. An empty slice yields a
// BVH that reports no intersections.
func NewBVH(primitives []Primitive) *BVH {
	bvh := &BVH{}
	if len(primitives) == 0 {
		return bvh
	}

	info := make([]bvhPrimInfo, len(primitives))
	for i, prim := range primitives {
		bounds := prim.Bounds()
		info[i] = bvhPrimInfo{index: i, bounds: bounds, centroid: bounds.Center()}
	}

	arena := make([]buildNode, 0, 2*len(primitives))
	ordered := make([]Primitive, 0, len(primitives))
	root := buildRecursive(&arena, info, primitives, &ordered)

	bvh.Primitives = ordered
	bvh.nodes = make([]linearNode, 0, len(arena))
	flattenTree(arena, &bvh.nodes, root)

	rootBounds := bvh.nodes[0].bounds
	bvh.Center = rootBounds.Center()
	bvh.Radius = rootBounds.Max.Subtract(bvh.Center).Length()
	return bvh
}

// newLeaf appends a leaf node to the arena and returns its index
func newLeaf(arena *[]buildNode, first, n int, bounds AABB) int {
	*arena = append(*arena, buildNode{bounds: bounds, firstPrim: first, numPrims: n})
	return len(*arena) - 1
}

// newInterior appends an interior node joining two children and returns its index
func newInterior(arena *[]buildNode, axis, c0, c1 int) int {
	bounds := (*arena)[c0].bounds.Union((*arena)[c1].bounds)
	*arena = append(*arena, buildNode{bounds: bounds, children: [2]int{c0, c1}, axis: axis})
	return len(*arena) - 1
}

func buildRecursive(arena *[]buildNode, info []bvhPrimInfo, primitives []Primitive, ordered *[]Primitive) int {
	bounds := EmptyAABB()
	for i := range info {
		bounds = bounds.Union(info[i].bounds)
	}

	n := len(info)
	if n == 1 {
		first := len(*ordered)
		*ordered = append(*ordered, primitives[info[0].index])
		return newLeaf(arena, first, 1, bounds)
	}

	// Choose the split axis from the extent of the centroids, not the boxes
	centroidBounds := EmptyAABB()
	for i := range info {
		centroidBounds = centroidBounds.UnionPoint(info[i].centroid)
	}
	axis := centroidBounds.LongestAxis()

	// All centroids coincide: partitioning cannot make progress
	if AxisValue(centroidBounds.Min, axis) == AxisValue(centroidBounds.Max, axis) {
		first := len(*ordered)
		for i := range info {
			*ordered = append(*ordered, primitives[info[i].index])
		}
		return newLeaf(arena, first, n, bounds)
	}

	var mid int
	if n <= sahLeafMinPrims {
		// Too few primitives for SAH to pay off; split at the median
		mid = n / 2
		sort.Slice(info, func(i, j int) bool {
			return AxisValue(info[i].centroid, axis) < AxisValue(info[j].centroid, axis)
		})
	} else {
		mid = sahSplit(info, bounds, centroidBounds, axis)
		if mid < 0 {
			// A single leaf is cheaper than any split
			first := len(*ordered)
			for i := range info {
				*ordered = append(*ordered, primitives[info[i].index])
			}
			return newLeaf(arena, first, n, bounds)
		}
	}

	c0 := buildRecursive(arena, info[:mid], primitives, ordered)
	c1 := buildRecursive(arena, info[mid:], primitives, ordered)
	return newInterior(arena, axis, c0, c1)
}

// sahSplit partitions info around the cheapest SAH bucket boundary and
// returns the partition point, or -1 when a leaf is cheaper than splitting
func sahSplit(info []bvhPrimInfo, bounds, centroidBounds AABB, axis int) int {
	bucketFor := func(centroid math.Vec3) int {
		rel := AxisValue(centroidBounds.Offset(centroid), axis)
		b := int(numSAHBuckets * rel)
		if b >= numSAHBuckets {
			b = numSAHBuckets - 1
		}
		if b < 0 {
			b = 0
		}
		return b
	}

	type bucketInfo struct {
		count  int
		bounds AABB
	}
	var buckets [numSAHBuckets]bucketInfo
	for i := range buckets {
		buckets[i].bounds = EmptyAABB()
	}
	for i := range info {
		b := bucketFor(info[i].centroid)
		buckets[b].count++
		buckets[b].bounds = buckets[b].bounds.Union(info[i].bounds)
	}

	// Cost of splitting after each bucket boundary
	var cost [numSAHBuckets - 1]float64
	for i := 0; i < numSAHBuckets-1; i++ {
		b0, b1 := EmptyAABB(), EmptyAABB()
		count0, count1 := 0, 0
		for j := 0; j <= i; j++ {
			b0 = b0.Union(buckets[j].bounds)
			count0 += buckets[j].count
		}
		for j := i + 1; j < numSAHBuckets; j++ {
			b1 = b1.Union(buckets[j].bounds)
			count1 += buckets[j].count
		}
		cost[i] = 1 + (float64(count0)*b0.SurfaceArea()+float64(count1)*b1.SurfaceArea())/bounds.SurfaceArea()
	}

	minCost := cost[0]
	minBucket := 0
	for i := 1; i < numSAHBuckets-1; i++ {
		if cost[i] < minCost {
			minCost = cost[i]
			minBucket = i
		}
	}

	leafCost := float64(len(info))
	if len(info) <= maxPrimsPerLeaf && minCost >= leafCost {
		return -1
	}

	// Stable partition keeps the build deterministic for a fixed input order
	left := make([]bvhPrimInfo, 0, len(info))
	right := make([]bvhPrimInfo, 0, len(info))
	for i := range info {
		if bucketFor(info[i].centroid) <= minBucket {
			left = append(left, info[i])
		} else {
			right = append(right, info[i])
		}
	}
	mid := len(left)
	copy(info, left)
	copy(info[mid:], right)

	if mid == 0 || mid == len(info) {
		// Degenerate bucket assignment; fall back to a median split
		mid = len(info) / 2
		sort.Slice(info, func(i, j int) bool {
			return AxisValue(info[i].centroid, axis) < AxisValue(info[j].centroid, axis)
		})
	}
	return mid
}

// flattenTree converts the build arena into the depth-first linear layout
func flattenTree(arena []buildNode, nodes *[]linearNode, root int) int {
	bn := arena[root]
	index := len(*nodes)
	*nodes = append(*nodes, linearNode{bounds: bn.bounds})

	if bn.numPrims > 0 {
		(*nodes)[index].offset = bn.firstPrim
		(*nodes)[index].numPrims = bn.numPrims
		return index
	}

	flattenTree(arena, nodes, bn.children[0])
	secondChild := flattenTree(arena, nodes, bn.children[1])
	(*nodes)[index].offset = secondChild
	(*nodes)[index].axis = bn.axis
	return index
}

// Intersect returns the closest primitive hit along the ray within
// [tMin, tMax], filling in the interaction on a hit. Traversal visits the
// near child first and prunes subtrees beyond the current best distance.
func (bvh *BVH) Intersect(ray math.Ray, tMin, tMax float64, isect *SurfaceInteraction) bool {
	if len(bvh.nodes) == 0 {
		return false
	}

	dirIsNeg := [3]bool{ray.Direction.X < 0, ray.Direction.Y < 0, ray.Direction.Z < 0}
	closest := tMax
	hitAnything := false

	var stack [64]int
	stackTop := 0
	current := 0

	for {
		node := &bvh.nodes[current]
		if node.bounds.Hit(ray, tMin, closest) {
			if node.numPrims > 0 {
				for i := node.offset; i < node.offset+node.numPrims; i++ {
					if bvh.Primitives[i].Intersect(ray, tMin, closest, isect) {
						isect.Primitive = i
						closest = isect.T
						hitAnything = true
					}
				}
				if stackTop == 0 {
					break
				}
				stackTop--
				current = stack[stackTop]
			} else if dirIsNeg[node.axis] {
				// Near child is the second one; push the first child for later
				stack[stackTop] = current + 1
				stackTop++
				current = node.offset
			} else {
				stack[stackTop] = node.offset
				stackTop++
				current = current + 1
			}
		} else {
			if stackTop == 0 {
				break
			}
			stackTop--
			current = stack[stackTop]
		}
	}

	return hitAnything
}

// IntersectAny reports whether any primitive is hit within [tMin, tMax].
// It exits on the first hit found, making it cheaper than Intersect for
// shadow and occlusion queries.
func (bvh *BVH) IntersectAny(ray math.Ray, tMin, tMax float64) bool {
	if len(bvh.nodes) == 0 {
		return false
	}

	var stack [64]int
	stackTop := 0
	current := 0

	for {
		node := &bvh.nodes[current]
		if node.bounds.Hit(ray, tMin, tMax) {
			if node.numPrims > 0 {
				for i := node.offset; i < node.offset+node.numPrims; i++ {
					prim := bvh.Primitives[i]
					if _, _, _, ok := prim.Mesh.IntersectFace(prim.Face, ray, tMin, tMax); ok {
						return true
					}
				}
				if stackTop == 0 {
					break
				}
				stackTop--
				current = stack[stackTop]
			} else {
				stack[stackTop] = node.offset
				stackTop++
				current = current + 1
			}
		} else {
			if stackTop == 0 {
				break
			}
			stackTop--
			current = stack[stackTop]
		}
	}

	return false
}
