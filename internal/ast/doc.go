// Package ast defines the program representation produced by the grammar
// and executed by the runtime.
//
// This package contains type definitions only. grammar builds these
// values and runtime walks them; ast imports nothing internal.
//
// Key design constraints:
//   - Integers only, no floats
//   - Variable and Index are the only writable (Reference) expressions
//   - A Program is read-only once parsed
package ast
