// Package mdo implements the composition and solve core for
// multidisciplinary design models: components declare typed parameters and
// outputs, groups wire components into a directed dataflow graph through
// connections and promotions, and a Problem resolves the graph once and
// evaluates it in topological order, optionally under an external
// derivative-free optimizer.
package mdo
