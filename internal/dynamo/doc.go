// Package dynamo provides core primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types used by the
// Lyapunov estimation pipeline:
//
//   - [State]: vector representing system state
//   - [System]: a flow (dX/dt = f(X)) or a map (X' = f(X)), distinguished by [Kind]
//   - [Integrator]: numerical ODE stepper interface
//   - [JacobianStrategy]: analytic or finite-difference Jacobian evaluation
//
// # Example
//
//	sys := physics.NewLorenz()
//	jac := dynamo.JacobianFor(sys)
//	J := mat.NewDense(3, 3, nil)
//	jac.Jacobian(sys.DefaultState(), 0, J)
//
// # Thread Safety
//
// Systems and strategies are NOT thread-safe. Concurrent estimations must
// each own independent system and workspace instances.
package dynamo
