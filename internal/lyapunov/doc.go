// Package lyapunov estimates Lyapunov exponents of dynamical systems.
//
// [Spectrum] is the tangent-space (Benettin) estimator: it jointly evolves
// the system state and k deviation vectors under the linearized dynamics,
// re-orthonormalizes the vectors every renormalization interval with a QR
// factorization, and averages the logs of the diagonal growth factors.
//
// [Largest] is the lighter two-trajectory estimator of the top exponent
// only; it needs no Jacobian.
//
// Conventions: natural logarithm, per unit time for flows and per map
// iteration for maps, sorted descending. Ties keep QR column order.
//
// # Thread Safety
//
// A run owns its state, deviation matrix, and accumulators exclusively.
// Concurrent estimations must each use independent system and integrator
// instances.
package lyapunov
