package renderer

import (
	stdmath "math"

	"github.com/sdao/gammaray/pkg/geometry"
	"github.com/sdao/gammaray/pkg/lights"
	"github.com/sdao/gammaray/pkg/material"
	"github.com/sdao/gammaray/pkg/math"
	"github.com/sdao/gammaray/pkg/sampler"
)

// rayEpsilon offsets secondary rays along their parametric range to keep
// them from re-hitting the surface they left.
const rayEpsilon = 1e-3

// Russian roulette activates in two stages: a gentle one that keeps bright
// paths alive and, deeper in, an aggressive one that kills most of what is
// left.
const (
	rouletteDepthGentle     = 10
	rouletteDepthAggressive = 20
)

// World is the view of a scene the integrator needs: intersection queries,
// the material table and the light set. The scene package implements it.
type World interface {
	Intersect(ray math.Ray, tMin, tMax float64, isect *geometry.SurfaceInteraction) bool
	Occluded(ray math.Ray, tMin, tMax float64) bool
	Material(index int) *material.Material
	Lights() *lights.Selector
}

// Integrator estimates radiance along camera rays with unidirectional path
// tracing: next event estimation at every bounce, BSDF importance sampling
// for the continuation, and the power heuristic to weight the two
// strategies against each other.
type Integrator struct {
	world    World
	maxDepth int
	seed     uint64

	// Bounce counts at which the two roulette stages take over. Kept as
	// fields so the thresholds can be lowered when probing convergence.
	rouletteGentle     int
	rouletteAggressive int
}

// NewIntegrator creates an integrator over the given world. maxDepth bounds
// the number of bounces regardless of Russian roulette.
func NewIntegrator(world World, maxDepth int, seed uint64) *Integrator {
	return &Integrator{
		world:              world,
		maxDepth:           maxDepth,
		seed:               seed,
		rouletteGentle:     rouletteDepthGentle,
		rouletteAggressive: rouletteDepthAggressive,
	}
}

// EstimateRadiance traces the path for one pixel sample and returns the
// radiance estimate. All randomness is drawn from samplers derived from
// (seed, pixel, sample index), so the same arguments always produce the
// same estimate no matter which worker runs them.
func (in *Integrator) EstimateRadiance(ray math.Ray, px, py, sampleIndex int) math.Vec3 {
	lightRng := sampler.NewPathSampler(in.seed, px, py, sampleIndex, sampler.StreamLight)
	bsdfRng := sampler.NewPathSampler(in.seed, px, py, sampleIndex, sampler.StreamBSDF)
	rouletteRng := sampler.NewPathSampler(in.seed, px, py, sampleIndex, sampler.StreamRoulette)

	selector := in.world.Lights()

	radiance := math.Vec3{}
	throughput := math.NewVec3(1, 1, 1)

	// State of the previous bounce, needed to weight light hits found by
	// BSDF sampling.
	var prevPoint, prevNormal math.Vec3
	prevPDF := 0.0

	var isect geometry.SurfaceInteraction
	for depth := 0; depth < in.maxDepth; depth++ {
		if !in.world.Intersect(ray, rayEpsilon, stdmath.Inf(1), &isect) {
			escaped := selector.EscapedRadiance(ray.Direction)
			if escaped.IsZero() {
				break
			}
			if depth == 0 {
				radiance = radiance.Add(throughput.MultiplyVec(escaped))
			} else {
				lightPDF := selector.PDF(prevPoint, prevNormal, ray.Direction)
				weight := sampler.PowerHeuristic(1, prevPDF, 1, lightPDF)
				radiance = radiance.Add(throughput.MultiplyVec(escaped).Multiply(weight))
			}
			break
		}

		mat := in.world.Material(isect.Material)

		// Emitted radiance. Camera rays see it directly; for later
		// bounces the same light was already samplable by next event
		// estimation, so the hit is weighted against that strategy.
		if emitted := mat.Emit(isect.FrontFace); !emitted.IsZero() {
			if depth == 0 {
				radiance = radiance.Add(throughput.MultiplyVec(emitted))
			} else if isect.Light != geometry.NoLight {
				lightPDF := selector.PDF(prevPoint, prevNormal, ray.Direction)
				weight := sampler.PowerHeuristic(1, prevPDF, 1, lightPDF)
				radiance = radiance.Add(throughput.MultiplyVec(emitted).Multiply(weight))
			}
		}
		if mat.Kind == material.Emissive {
			break
		}

		wo := isect.Outgoing

		// Next event estimation: sample a light, test visibility, weight
		// against the BSDF's density for the same direction.
		if sample, _, ok := selector.SampleDirect(isect.Point, isect.Normal, lightRng.Get1D(), lightRng.Get1D(), lightRng.Get2D()); ok {
			f, bsdfPDF := mat.Evaluate(wo, sample.Direction, isect.Normal)
			if !f.IsZero() {
				shadowRay := math.NewRay(isect.Point, sample.Direction)
				maxT := sample.Distance - rayEpsilon
				if stdmath.IsInf(sample.Distance, 1) {
					maxT = stdmath.Inf(1)
				}
				if !in.world.Occluded(shadowRay, rayEpsilon, maxT) {
					weight := sampler.PowerHeuristic(1, sample.PDF, 1, bsdfPDF)
					contribution := throughput.
						MultiplyVec(f).
						MultiplyVec(sample.Emission).
						Multiply(weight / sample.PDF)
					if contribution.IsFinite() {
						radiance = radiance.Add(contribution)
					}
				}
			}
		}

		// Continue the path by sampling the BSDF.
		wi, f, pdf, ok := mat.Sample(wo, isect.Normal, bsdfRng.Get1D(), bsdfRng.Get2D())
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(f).Multiply(1 / pdf)
		if !throughput.IsFinite() {
			break
		}

		prevPoint = isect.Point
		prevNormal = isect.Normal
		prevPDF = pdf
		ray = math.NewRay(isect.Point, wi)

		// Russian roulette keeps the estimator unbiased by scaling
		// surviving paths by the inverse survival probability.
		if depth+1 >= in.rouletteGentle {
			survival := in.rouletteSurvival(depth+1, throughput)
			if rouletteRng.Get1D() >= survival {
				break
			}
			throughput = throughput.Multiply(1 / survival)
		}
	}

	return radiance
}

// rouletteSurvival maps the path throughput's luminance to a survival
// probability. Dim paths die early, bright paths are carried further, and
// past the aggressive depth even bright paths face termination.
func (in *Integrator) rouletteSurvival(depth int, throughput math.Vec3) float64 {
	lum := throughput.Luminance()
	if depth >= in.rouletteAggressive {
		return math.ClampedLerp(0, 0.75, lum)
	}
	return math.ClampedLerp(0.25, 1, lum)
}
