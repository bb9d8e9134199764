// Package physics provides dynamical system models for Lyapunov analysis.
//
// Each model implements the [dynamo.System] interface; all of them also
// implement [dynamo.Differentiable] with an analytic Jacobian, which the
// tangent-space estimator prefers over finite differences:
//
//   - [Lorenz]: butterfly attractor (flow)
//   - [Rossler]: spiral-type chaotic flow
//   - [Henon]: 2D chaotic map
//   - [StandardMap]: area-preserving kicked-rotor map
//   - [FoldedTowel]: 3D hyperchaotic map
//   - [LinearMap]: linear map with prescribed eigenvalues, for validation
//
// Models with tunable parameters implement [dynamo.Configurable].
package physics
