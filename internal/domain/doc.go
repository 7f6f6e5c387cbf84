// Package domain models airborne scent dispersion from a last known
// position (LKP) for K9 search-and-rescue planning.
//
// # Model
//
// The envelope model is a fast planning heuristic, not an atmospheric
// dispersion simulator. It produces a single downwind length/width pair
// (in meters) from elapsed minutes t and wind speed W (mph):
//
//	lengthFt = (30 + 6t + 120·min(W,18)·ln(1 + t/30)) · terrain · stability
//	widthFt  = (20 + 3.5t + 40·√max(1,t)) · mix
//
// Wind above 18 mph stops lengthening the envelope; at that point scent
// dilutes faster than it travels, so extra speed adds uncertainty, not
// reach. Terrain and stability multipliers scale the base figures
// (open terrain stretches the plume, urban canyons break it up, stable
// air suppresses mixing).
//
// # Zones
//
// Three nested confidence zones share the base pair, scaled by fixed
// constants so core ⊂ fringe ⊂ residual always holds:
//
//	core     0.55 × length, 0.45 × width   highest probability
//	fringe   0.85 × length, 0.80 × width
//	residual 1.00 × length, 1.15 × width   planning boundary
//
// Each zone is rendered as a fan polygon: an arc of sampled bearings
// across ±atan2(width, length) about the downwind axis, closed back
// through the LKP.
//
// # Confidence
//
// Scent viability decays exponentially with a regime-dependent time
// constant tau (fast decay 120 min in hot/dry/windy/clear conditions,
// slow decay 240 min in cool/humid/overcast conditions, 180 min
// otherwise), then compounds independent humidity, temperature, sky,
// precipitation, and wind multipliers. The score is clamped to [5,100]
// and banded: ≥70 High, ≥40 Moderate, else Low.
//
// # Purity
//
// Every entry point is a pure function of its inputs. The evaluation
// timestamp is always supplied by the caller; nothing in this package
// reads a clock, so identical requests produce bit-identical results.
// Unrecognized categorical tags (terrain, stability, cloud, precip)
// fall back to their documented neutral defaults rather than failing,
// keeping a planning session alive on malformed input.
//
// Geographic math uses a flat-earth local projection (meters per degree
// at the LKP latitude). That is an intentional, bounded approximation:
// scent envelopes span at most a few kilometers, where geodesic
// corrections are far below the model's own noise floor.
package domain
