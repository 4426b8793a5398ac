// Package mock provides test doubles for the ai interfaces. The defaults are
// deterministic so tests can assert stable outputs; behavior can be injected
// per test via the exported function fields.
package mock
